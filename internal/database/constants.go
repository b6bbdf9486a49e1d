package database

// Supported DATABASE_DRIVER values
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// NeighborhoodNameMaxLen is the column width of neighborhoods.name
const NeighborhoodNameMaxLen = 255
