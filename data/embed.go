package data

import (
	_ "embed"
)

//go:embed initdb/mysql/001-ddl-tables.sql
var InitdbMySQLTables string
