// Package webflow is a client for the Webflow CMS API v2: paginated
// collection listings, item create/delete/publish, and two-step asset
// uploads through pre-signed S3 forms.
package webflow
