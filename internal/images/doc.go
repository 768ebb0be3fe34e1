// Package images resolves frontmatter image references into renderable image
// metadata. References are either an external photo id looked up through the
// photo service or an "imgix:" CDN transform that is signed locally.
package images
