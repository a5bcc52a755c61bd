package config

const (
	// DefaultDatabasePath is where the diary keeps its store when
	// DATABASE_PATH is not set.
	DefaultDatabasePath = "./diary.db"

	// DefaultOrphanSweepSchedule runs the attachment sweep daily at 03:00.
	DefaultOrphanSweepSchedule = "0 3 * * *"
)
