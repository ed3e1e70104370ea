package nextcloud

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// propfindBody requests the fixed property set Atlas renders. Anything
// else the server knows about an entry is ignored.
const propfindBody = `<?xml version="1.0" encoding="UTF-8"?>
<d:propfind xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns" xmlns:nc="http://nextcloud.org/ns">
    <d:prop>
        <d:displayname/>
        <d:getcontentlength/>
        <d:getlastmodified/>
        <d:getcontenttype/>
        <d:getetag/>
        <d:resourcetype/>
    </d:prop>
</d:propfind>`

// Typed DAV multistatus document. Properties may be split across several
// propstat blocks with different statuses; only 200 OK blocks count.
type multistatus struct {
	XMLName   xml.Name      `xml:"DAV: multistatus"`
	Responses []davResponse `xml:"response"`
}

type davResponse struct {
	Href      string     `xml:"href"`
	Propstats []propstat `xml:"propstat"`
}

type propstat struct {
	Status string  `xml:"status"`
	Prop   davProp `xml:"prop"`
}

type davProp struct {
	DisplayName   string       `xml:"displayname"`
	ContentLength string       `xml:"getcontentlength"`
	LastModified  string       `xml:"getlastmodified"`
	ContentType   string       `xml:"getcontenttype"`
	ETag          string       `xml:"getetag"`
	ResourceType  resourceType `xml:"resourcetype"`
}

type resourceType struct {
	Collection *struct{} `xml:"collection"`
}

// davEntry is one parsed multistatus response with the raw (decoded,
// still server-rooted) href.
type davEntry struct {
	Href         string
	Name         string
	IsCollection bool
	Size         int64
	LastModified string
	ContentType  string
	ETag         string
}

// parseMultistatus decodes a PROPFIND response body into typed entries.
func parseMultistatus(body []byte) ([]davEntry, error) {
	var doc multistatus
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse multistatus: %w", err)
	}

	entries := make([]davEntry, 0, len(doc.Responses))
	for _, resp := range doc.Responses {
		href, err := url.PathUnescape(resp.Href)
		if err != nil {
			href = resp.Href
		}

		entry := davEntry{Href: href}
		for _, ps := range resp.Propstats {
			if !strings.Contains(ps.Status, "200") {
				continue
			}
			prop := ps.Prop
			if prop.DisplayName != "" {
				entry.Name = prop.DisplayName
			}
			if prop.ContentLength != "" {
				if size, err := strconv.ParseInt(prop.ContentLength, 10, 64); err == nil {
					entry.Size = size
				}
			}
			if prop.LastModified != "" {
				entry.LastModified = prop.LastModified
			}
			if prop.ContentType != "" {
				entry.ContentType = prop.ContentType
			}
			if prop.ETag != "" {
				entry.ETag = strings.Trim(prop.ETag, `"`)
			}
			if prop.ResourceType.Collection != nil {
				entry.IsCollection = true
			}
		}

		if entry.Name == "" {
			entry.Name = lastSegment(href)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// lastSegment returns the final non-empty path segment of href.
func lastSegment(href string) string {
	segments := strings.Split(href, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// relativePath strips the WebDAV prefix and username from a server-rooted
// href, yielding the path Atlas uses as the item key.
func relativePath(href string) string {
	const davPrefix = "/remote.php/dav/files/"

	if rest, ok := strings.CutPrefix(href, davPrefix); ok {
		if idx := strings.Index(rest, "/"); idx != -1 {
			return rest[idx:]
		}
		return "/"
	}
	return href
}
