// Package export converts a labeling project's assets and annotations into a
// YOLO v4/v5 archive.
//
// The pipeline derives a category id scheme from the project interface
// (merged across jobs or split per job), normalizes each annotation's polygon
// into a bounding-box record, resolves single frames versus video frame
// groups, materializes media (download, remote reference, or ffmpeg video
// cut), and assembles the directory tree that Exporter zips and copies to the
// caller's output path.
//
// Network and metadata access go through the ProjectStore, ContentRepository,
// and VideoCutter collaborators so the conversion core stays testable with
// fakes.
package export
