package models

// Athena knowledge-graph types. The graph is consumed read-only; Atlas
// never writes to it. Field names follow Athena's wire format.

// ClusterInfo is a positioned cluster in the semantic-zoom layout.
type ClusterInfo struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  int     `json:"size"`
	Label string  `json:"label"`
	Color string  `json:"color,omitempty"`
}

// MemoryInfo is a positioned individual memory inside a cluster.
type MemoryInfo struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	ContentPreview string  `json:"content_preview"`
	Category       string  `json:"category"`
	ClusterL1      string  `json:"cluster_l1"`
	ClusterL2      string  `json:"cluster_l2"`
}

// GraphOverview is the zoomed-out view of all domain-level clusters.
type GraphOverview struct {
	TotalClusters int           `json:"total_clusters"`
	TotalMemories int           `json:"total_memories"`
	Clusters      []ClusterInfo `json:"clusters"`
}

// ClusterDetail lists the topic-level clusters inside a domain cluster.
type ClusterDetail struct {
	ClusterID    string        `json:"cluster_id"`
	ClusterLabel string        `json:"cluster_label"`
	SubClusters  []ClusterInfo `json:"l1_clusters"`
}

// ClusterMemories is one page of memories inside a topic cluster.
type ClusterMemories struct {
	ClusterID     string       `json:"cluster_id"`
	ClusterLabel  string       `json:"cluster_label"`
	TotalMemories int          `json:"total_memories"`
	Memories      []MemoryInfo `json:"memories"`
	HasMore       bool         `json:"has_more"`
}

// MemoryDetail is the full record for a single memory node.
type MemoryDetail struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	Category  string                 `json:"category"`
	Source    string                 `json:"source"`
	CreatedAt string                 `json:"created_at"`
	ClusterL1 string                 `json:"cluster_l1"`
	ClusterL2 string                 `json:"cluster_l2"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// GraphStats reports what the visualization service has loaded.
type GraphStats struct {
	TotalMemories   int  `json:"total_memories"`
	TotalL1Clusters int  `json:"total_l1_clusters"`
	TotalL2Clusters int  `json:"total_l2_clusters"`
	DataLoaded      bool `json:"data_loaded"`
}

// GraphSearchResult is one hit of a free-text graph search, carrying the
// cluster hierarchy needed to zoom to the match.
type GraphSearchResult struct {
	ID             string  `json:"id"`
	ContentPreview string  `json:"content_preview"`
	Category       string  `json:"category"`
	ClusterL1      string  `json:"cluster_l1"`
	ClusterL1Label string  `json:"cluster_l1_label"`
	ClusterL2      string  `json:"cluster_l2"`
	ClusterL2Label string  `json:"cluster_l2_label"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
}

// GraphSearchResponse wraps graph search hits.
type GraphSearchResponse struct {
	Query        string              `json:"query"`
	TotalResults int                 `json:"total_results"`
	Results      []GraphSearchResult `json:"results"`
}
