package config

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds a client for the project at url. The service role
// key is required because the backend writes rows directly.
func NewSupabaseClient(url, serviceKey string) (*supa.Client, error) {
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase url and service key are required")
	}
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("error initializing Supabase client: %w", err)
	}
	return client, nil
}
