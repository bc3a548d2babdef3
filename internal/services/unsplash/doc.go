// Package unsplash is a client for the Unsplash photo search API, with a
// filter that rejects text-heavy photos unsuited to article banners.
package unsplash
