// Package dictionary assembles the ordered reference-text list the DP
// compressor matches payload substrings against.
package dictionary

import "stego/carrier"

// Build returns the dictionary D: [post body, each search-result document in
// order, each flattened comment body in canonical tree order], with empty
// entries filtered and the surviving order preserved. It is a pure function
// of the carrier: the decoder must be able to reconstruct the identical
// list from the same inputs.
func Build(post carrier.Post, flattened []carrier.CommentNode) []string {
	var d []string

	if post.Selftext != "" {
		d = append(d, post.Selftext)
	}
	for _, doc := range post.SearchResults {
		if doc != "" {
			d = append(d, doc)
		}
	}
	for _, c := range flattened {
		if c.Body != "" {
			d = append(d, c.Body)
		}
	}

	return d
}
