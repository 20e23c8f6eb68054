package domain

// AuthorNode is one author in the co-authorship graph, deduplicated by
// normalized name. Name keeps the first-seen display form.
type AuthorNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EdgeArticle identifies one article responsible for a co-authorship edge.
type EdgeArticle struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
}

// AuthorEdge is an undirected co-authorship relation between two distinct
// authors. Source and Target are node ids ordered lexically so the
// unordered pair has a single representation. Articles never contains the
// same article id twice.
type AuthorEdge struct {
	Source   string        `json:"source"`
	Target   string        `json:"target"`
	Articles []EdgeArticle `json:"articles"`
}

// AuthorGraph is the derived co-authorship graph. It is recomputed on
// every request and never persisted. Nodes and Edges are sorted so a
// fixed article set always serializes identically.
type AuthorGraph struct {
	Nodes []AuthorNode `json:"nodes"`
	Edges []AuthorEdge `json:"edges"`
}
