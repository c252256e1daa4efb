package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/token"
	configrepo "github.com/kondukto-io/dspolicy/internal/repository/config"
)

const servicesV1 = `{"deliveryServices": {
	"video": {"routingName": "tr", "coverageZoneOnly": false, "domains": ["video.example.com"],
		"geoLimitRedirectURL": "http://tr.video.example.com/blocked.html"},
	"radio": {"routingName": "tr", "coverageZoneOnly": true}
}}`

const servicesV2 = `{"deliveryServices": {
	"video": {"routingName": "edge", "coverageZoneOnly": false},
	"news": {"routingName": "tr", "coverageZoneOnly": false}
}}`

const states = `{"deliveryServices": {
	"video": {"isAvailable": false, "disabledLocations": ["den"]},
	"news": {"isAvailable": true, "disabledLocations": ["chi"]}
}}`

func newRegistry(t *testing.T) *Registry {
	t.Helper()

	repo, err := configrepo.New()
	require.NoError(t, err)

	return New(repo, token.New())
}

func TestLoadConfigPublishesGeneration(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, uint64(0), r.Current().Version)

	gen, err := r.LoadConfig([]byte(servicesV1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen.Version)
	assert.Equal(t, []string{"radio", "video"}, gen.IDs())
	assert.Same(t, gen, r.Current())

	ds, err := r.Get("radio")
	require.NoError(t, err)
	assert.True(t, ds.Config().CoverageZoneOnly)

	video, err := r.Get("video")
	require.NoError(t, err)
	assert.Equal(t, domain.GeoRedirectURLService, video.Config().GeoRedirectURLType())
	assert.Equal(t, "/blocked.html", video.Config().GeoRedirectFile())

	_, err = r.Get("news")
	assert.ErrorIs(t, err, domain.ErrUnknownDeliveryService)
}

func TestLoadConfigErrorKeepsGeneration(t *testing.T) {
	r := newRegistry(t)
	gen, err := r.LoadConfig([]byte(servicesV1))
	require.NoError(t, err)

	_, err = r.LoadConfig([]byte(`{"deliveryServices": {"x": {}}}`))
	assert.Error(t, err)
	assert.Same(t, gen, r.Current())
}

func TestStatesSurviveNewGeneration(t *testing.T) {
	r := newRegistry(t)
	_, err := r.LoadConfig([]byte(servicesV1))
	require.NoError(t, err)

	require.NoError(t, r.SetStates([]byte(states)))

	video, err := r.Get("video")
	require.NoError(t, err)
	assert.False(t, video.IsAvailable())
	assert.False(t, video.IsLocationAvailable(domain.CacheLocation{ID: "den"}))

	radio, err := r.Get("radio")
	require.NoError(t, err)
	assert.True(t, radio.IsAvailable())

	_, err = r.LoadConfig([]byte(servicesV2))
	require.NoError(t, err)

	video, err = r.Get("video")
	require.NoError(t, err)
	assert.Equal(t, "edge", video.Config().RoutingName)
	assert.False(t, video.IsAvailable())

	news, err := r.Get("news")
	require.NoError(t, err)
	assert.False(t, news.IsLocationAvailable(domain.CacheLocation{ID: "chi"}))
}

func TestStatesReplacedWholesale(t *testing.T) {
	r := newRegistry(t)
	_, err := r.LoadConfig([]byte(servicesV1))
	require.NoError(t, err)

	require.NoError(t, r.SetStates([]byte(states)))
	require.NoError(t, r.SetStates([]byte(`{"deliveryServices": {"radio": {"isAvailable": true}}}`)))

	video, err := r.Get("video")
	require.NoError(t, err)
	assert.True(t, video.IsAvailable())
	assert.True(t, video.IsLocationAvailable(domain.CacheLocation{ID: "den"}))

	// republishing the same configuration gives the same answer
	_, err = r.LoadConfig([]byte(servicesV1))
	require.NoError(t, err)

	video, err = r.Get("video")
	require.NoError(t, err)
	assert.True(t, video.IsAvailable())
	assert.True(t, video.IsLocationAvailable(domain.CacheLocation{ID: "den"}))
}

func TestSetStatesInvalid(t *testing.T) {
	r := newRegistry(t)
	assert.Error(t, r.SetStates([]byte(`[]`)))
}

func TestConcurrentReadersSeeWholeGenerations(t *testing.T) {
	r := newRegistry(t)
	_, err := r.LoadConfig([]byte(servicesV1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			doc := servicesV1
			if i%2 == 0 {
				doc = servicesV2
			}
			_, err := r.LoadConfig([]byte(doc))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			ids := r.Current().IDs()
			assert.Contains(t, [][]string{{"radio", "video"}, {"news", "video"}}, ids)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(11), r.Current().Version)
}
