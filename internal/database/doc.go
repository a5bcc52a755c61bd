// Package database is the diary's record store.
//
// # Architecture
//
// The store is a single SQLite file with four tables. The schema is versioned
// with goose migrations embedded in the binary; each version only adds tables.
//
//	database/
//	├── database.go      # Connection setup, migrations, table checks
//	├── records.go       # Generic put/get/getAll/getByIndex and clear-all
//	├── migrations/      # Embedded goose migrations (schema versions 1..3)
//	├── entries/         # Entry rows
//	├── photos/          # Photo rows, looked up by entry id
//	├── audios/          # Audio rows, looked up by entry id
//	└── settings/        # The singleton preferences row
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./diary.db", database.Options{})
//
//	entriesRepo := entries.NewRepository(db)
//	photosRepo := photos.NewRepository(db)
//
//	all, err := entriesRepo.List(ctx)
//	pics, err := photosRepo.ForEntry(ctx, all[0].ID)
//
// # Failure Policy
//
// Every operation checks that its table exists and fails with ErrTableMissing
// otherwise. Write failures wrap ErrWriteFailed; payloads above the configured
// limit fail with ErrQuotaExceeded, which also matches ErrWriteFailed.
package database
