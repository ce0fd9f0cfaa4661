package multipass

import "context"

// MockClient is a mock implementation of Manager for tests.
type MockClient struct {
	LaunchFunc            func(ctx context.Context, opts LaunchOpts) error
	DeleteFunc            func(ctx context.Context, name string) error
	ListFunc              func(ctx context.Context) ([]Instance, error)
	InstancesByPrefixFunc func(ctx context.Context, prefix string) ([]Instance, error)
	InstanceIPFunc        func(ctx context.Context, name string) (string, error)
	ExecFunc              func(ctx context.Context, name string, argv ...string) (ExecResult, error)
	AvailableFunc         func(ctx context.Context) bool
}

// Ensure interface compliance
var _ Manager = (*MockClient)(nil)

// Launch mocks instance creation.
func (m *MockClient) Launch(ctx context.Context, opts LaunchOpts) error {
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

// Delete mocks instance deletion.
func (m *MockClient) Delete(ctx context.Context, name string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name)
	}
	return nil
}

// List mocks instance listing.
func (m *MockClient) List(ctx context.Context) ([]Instance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// InstancesByPrefix mocks prefix filtering, delegating to List when no
// dedicated func is set.
func (m *MockClient) InstancesByPrefix(ctx context.Context, prefix string) ([]Instance, error) {
	if m.InstancesByPrefixFunc != nil {
		return m.InstancesByPrefixFunc(ctx, prefix)
	}
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var matched []Instance
	for _, inst := range all {
		if len(inst.Name) >= len(prefix) && inst.Name[:len(prefix)] == prefix {
			matched = append(matched, inst)
		}
	}
	return matched, nil
}

// InstanceIP mocks address lookup.
func (m *MockClient) InstanceIP(ctx context.Context, name string) (string, error) {
	if m.InstanceIPFunc != nil {
		return m.InstanceIPFunc(ctx, name)
	}
	return "10.0.0.1", nil
}

// Exec mocks in-guest command execution.
func (m *MockClient) Exec(ctx context.Context, name string, argv ...string) (ExecResult, error) {
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, name, argv...)
	}
	return ExecResult{}, nil
}

// Available mocks the daemon probe.
func (m *MockClient) Available(ctx context.Context) bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc(ctx)
	}
	return true
}
