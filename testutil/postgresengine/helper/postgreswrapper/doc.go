// Package postgreswrapper provides test utilities for abstracting over different PostgreSQL database adapters.
//
// This package enables testing of the library transactions across multiple database drivers
// (pgx, sql.DB, sqlx.DB) using a common Wrapper interface. The specific adapter type is determined
// by the ADAPTER_TYPE environment variable, allowing the same test suite to run against different
// database implementations.
//
// Usage:
//
//	wrapper := CreateWrapperWithTestConfig(t)
//	defer wrapper.Close()
//
//	CleanUp(t, wrapper)
//	GivenReader(t, wrapper, "beemovie@yahoo.com", "Barry", "Benson", "+1 555 0100", "Hive 1")
//	GivenBookCopies(t, wrapper, "1984", 1)
//
//	engine := wrapper.GetEngine()
package postgreswrapper
