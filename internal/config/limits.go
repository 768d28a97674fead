package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxPageTitleLength is the maximum length for page titles.
	// Same as folder names for consistency.
	MaxPageTitleLength = 255

	// MaxSlugLength is the maximum length for publish slugs.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255); slugs appear
	// in public URLs and should stay short.
	MaxSlugLength = 255
)
