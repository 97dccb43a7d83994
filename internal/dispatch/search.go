package dispatch

import (
	"github.com/ternarybob/syntari-kernel/internal/pathsec"
	"github.com/ternarybob/syntari-kernel/internal/search"
)

func (d *Dispatcher) SearchInProject(root, query string, opts search.Options) (*search.Data, error) {
	canonical, err := pathsec.Validate(root)
	if err != nil {
		return nil, err
	}
	return search.Search(canonical, query, opts)
}

func (d *Dispatcher) SearchInProjectStreaming(root, query string, opts search.Options, maxResults int) (*search.Data, error) {
	canonical, err := pathsec.Validate(root)
	if err != nil {
		return nil, err
	}
	opts.MaxResults = maxResults
	return search.SearchStreaming(canonical, query, opts)
}
