package config

const (
	// MaxNodeTitleLength is the maximum length for node titles.
	// Node titles live in Zeus memory metadata; kept short for
	// reasonable UX (titles should be short and descriptive).
	MaxNodeTitleLength = 255

	// MaxContextContentChars is how much of the selected document's
	// content is passed to the agent as conversation context. Longer
	// documents are truncated, not rejected.
	MaxContextContentChars = 4000

	// DefaultSearchLimit is the default result count for memory search,
	// both for the agent's search tool and node search requests.
	DefaultSearchLimit = 5

	// NodeFetchLimit bounds the number of atlas-node memories fetched
	// when rehydrating the tree from Zeus.
	NodeFetchLimit = 500

	// RevisionFetchLimit bounds the number of revisions fetched for a
	// single node.
	RevisionFetchLimit = 100

	// MemoryPreviewChars is how much of each memory's content the agent
	// sees in formatted search results.
	MemoryPreviewChars = 500

	// DefaultGraphPageSize is the default page size for cluster memory
	// listings proxied from Athena.
	DefaultGraphPageSize = 100
)
