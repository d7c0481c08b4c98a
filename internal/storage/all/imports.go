// Package all registers every storage backend with the factory. The config
// selects which one to use, but the binary builds in support for all of them.
package all

import (
	_ "fleximart/internal/storage/mysql"
	_ "fleximart/internal/storage/postgres"
	_ "fleximart/internal/storage/sqlite"
)
