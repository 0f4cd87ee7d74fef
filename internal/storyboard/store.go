package storyboard

import "context"

// Store persists whole projects. Save is always a full rewrite of the
// persisted representation; implementations must not leave partial writes
// behind. Load returns (nil, nil) when the project does not exist;
// resolution to NotFoundError happens in the service layer.
type Store interface {
	Save(ctx context.Context, p *Project) error
	Load(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}
