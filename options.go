package docquill

import "github.com/docquill/docquill/fill"

// FillOptions holds configuration for one fill pipeline run.
type FillOptions struct {
	// Staged substitutions
	labels fill.FieldValues
	tags   fill.TagMap

	// Post-processing
	normalize       bool
	clearHighlights bool
}

// defaultOptions returns the default fill options.
func defaultOptions() FillOptions {
	return FillOptions{
		labels:          nil,
		tags:            nil,
		normalize:       true,
		clearHighlights: true,
	}
}

// clone creates a deep copy of FillOptions.
func (o FillOptions) clone() FillOptions {
	newOpts := FillOptions{
		normalize:       o.normalize,
		clearHighlights: o.clearHighlights,
	}

	if o.labels != nil {
		newOpts.labels = make(fill.FieldValues, len(o.labels))
		for k, v := range o.labels {
			newOpts.labels[k] = v
		}
	}
	if o.tags != nil {
		newOpts.tags = make(fill.TagMap, len(o.tags))
		for k, v := range o.tags {
			newOpts.tags[k] = v
		}
	}

	return newOpts
}
