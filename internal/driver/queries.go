package driver

const (
	// ReplaceCatalogQuery swaps the whole catalog in one statement so a
	// failed seed never leaves a partial catalog behind. Each map in
	// $entries carries every node property, including position, which keeps
	// the catalog order stable across reloads.
	ReplaceCatalogQuery = `
		MATCH (old:CatalogEntry)
		DETACH DELETE old
		WITH count(*) AS _
		UNWIND $entries AS e
		CREATE (n:CatalogEntry)
		SET n = e
		RETURN count(n) AS saved
	`

	ListCatalogEntriesQuery = `
		MATCH (n:CatalogEntry)
		RETURN n.type AS type,
			n.name AS name,
			n.target AS target,
			n.info AS info,
			n.rec AS rec,
			n.market AS market,
			n.tags AS tags
		ORDER BY n.position ASC, n.name ASC
	`
)
