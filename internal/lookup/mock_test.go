package lookup

import (
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/mock"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}
