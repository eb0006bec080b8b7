package consts

const (
	// DefaultDBName is the default database name.
	DefaultDBName = "regent"

	// TableNameExchanges is the default table/collection name for
	// exchanges.
	TableNameExchanges = "exchanges"

	// DefaultLimit is the per-token exchange cap when none is configured.
	DefaultLimit = 20

	// Column names
	ColToken     = "token"
	ColQuestion  = "question"
	ColAnswer    = "answer"
	ColCreatedAt = "created_at"

	// Neo4j specific
	LabelCaller   = "Caller"
	LabelExchange = "Exchange"
	RelAsked      = "ASKED"
)
