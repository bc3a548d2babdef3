// Package sitemap crawls a public sitemap.xml and scrapes OpenGraph metadata
// from each listed page, producing search index records for static pages that
// have no CMS collection entry.
package sitemap
