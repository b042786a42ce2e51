package activities

import (
	"fmt"

	"github.com/digitalbeing/being/registry"
)

// RegisterAll adds every built-in activity factory to the registry. The
// constraints file decides which of them actually run.
func RegisterAll(reg *registry.Registry) error {
	factories := map[string]registry.Factory{
		fetchNewsActivityName: NewFetchNews,
		"mock_tweet":          NewMockTweet,
		"post_tweet":          NewPostTweet,
	}

	for name, factory := range factories {
		if err := reg.Register(name, factory); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}
	}
	return nil
}
