package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for asset file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxFolderPathLength is the maximum length for full folder paths.
	// Set to 500 to allow paths like "A/B/C/D/E" where each segment can
	// be up to 100 characters. Longer paths indicate overly deep
	// hierarchies (anti-pattern).
	MaxFolderPathLength = 500

	// MaxUploadBatchBytes bounds the multipart form size for one upload
	// batch. The pipeline is an admin tool for dozens of files, not a
	// high-volume ingestion path.
	MaxUploadBatchBytes = 200 << 20
)
