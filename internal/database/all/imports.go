// Package all registers every built-in database engine with the database
// package. Import it for side effects:
//
//	import _ "github.com/koustreak/autoseq/internal/database/all"
package all

import (
	_ "github.com/koustreak/autoseq/internal/database/mssql"
	_ "github.com/koustreak/autoseq/internal/database/mysql"
	_ "github.com/koustreak/autoseq/internal/database/postgres"
	_ "github.com/koustreak/autoseq/internal/database/sqlite"
)
