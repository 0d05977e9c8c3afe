package config

const (
	// MaxTitleLength is the maximum length for post titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTitleLength = 255

	// MaxAuthorNameLength is the maximum length for author display names.
	MaxAuthorNameLength = 128

	// MaxImageDimension is the pixel cap for the longer side of an
	// uploaded image. Anything larger is downscaled proportionally.
	MaxImageDimension = 2000

	// JPEGQuality is the re-encode quality for processed images.
	JPEGQuality = 85

	// MaxSlugAttempts bounds the slug-collision retry loop. Hitting it
	// means the store rejected that many consecutive candidates, which
	// only happens under pathological contention.
	MaxSlugAttempts = 8

	// OwnerCookieMaxAge is the lifetime of the ownership cookie in
	// seconds (10 years). The cookie is the entire authentication
	// mechanism: whoever presents it owns the post.
	OwnerCookieMaxAge = 60 * 60 * 24 * 365 * 10
)
