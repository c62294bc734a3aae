package factory

import (
	"time"

	"github.com/wavebreak/wavebreak-site/internal/dependencies/mocks"
	"github.com/wavebreak/wavebreak-site/internal/identity"
	"github.com/wavebreak/wavebreak-site/internal/session"
	"github.com/wavebreak/wavebreak-site/internal/storage/memory"
	"github.com/wavebreak/wavebreak-site/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	provider := identity.NewLocalProvider(store, mockClock)
	codec := session.NewCodec("test-secret", false)

	app := newWithDependencies(store, mockClock, mockRandom, provider, codec, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
