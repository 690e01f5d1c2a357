// Package kili implements the export collaborators against the labeling
// platform: a GraphQL client for project metadata and asset records, and an
// HTTP content repository for media bytes.
package kili
