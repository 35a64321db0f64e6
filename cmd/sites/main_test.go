package main

import (
	"context"
	"encoding/json"
	"github.com/aloftwx/aloft/backend-go/internal/handler"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"
)

// mockSiteFinder implements models.SiteFinder interface for testing
type mockSiteFinder struct {
	findSiteFn         func(ctx context.Context, siteID string) (*models.Site, error)
	findNearestSitesFn func(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error)
}

func (m *mockSiteFinder) FindSite(ctx context.Context, siteID string) (*models.Site, error) {
	if m.findSiteFn != nil {
		return m.findSiteFn(ctx, siteID)
	}
	return nil, nil
}

func (m *mockSiteFinder) FindNearestSites(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error) {
	if m.findNearestSitesFn != nil {
		return m.findNearestSitesFn(ctx, lat, lon, limit)
	}
	return nil, nil
}

// Helper function to create test sites
func createTestSite(id string) models.Site {
	state := "CO"
	elevation := 1611
	return models.Site{
		ID:        id,
		Name:      "Test Site " + id,
		State:     &state,
		Distance:  0,
		Latitude:  39.7684,
		Longitude: -104.8698,
		Elevation: &elevation,
		Source:    models.SourceGSL,
		Models:    []string{"Op40", "Bak40"},
	}
}

var (
	mu sync.Mutex // Protect lambdaStart in tests
)

func TestLambdaInit(t *testing.T) {
	// Set required Lambda environment variables
	originalServerPort := os.Getenv("_LAMBDA_SERVER_PORT")
	originalRuntimeAPI := os.Getenv("AWS_LAMBDA_RUNTIME_API")

	err := os.Setenv("_LAMBDA_SERVER_PORT", "8080")
	require.NoError(t, err)
	err = os.Setenv("AWS_LAMBDA_RUNTIME_API", "localhost")
	require.NoError(t, err)

	// Cleanup environment after test
	defer func() {
		err := os.Setenv("_LAMBDA_SERVER_PORT", originalServerPort)
		if err != nil {
			t.Errorf("Failed to restore _LAMBDA_SERVER_PORT: %v", err)
		}
		err = os.Setenv("AWS_LAMBDA_RUNTIME_API", originalRuntimeAPI)
		if err != nil {
			t.Errorf("Failed to restore AWS_LAMBDA_RUNTIME_API: %v", err)
		}
	}()

	// Save original lambda.Start function
	mu.Lock()
	originalStartFn := lambdaStart
	var startCalled bool
	lambdaStart = func(handler interface{}) {
		mu.Lock()
		startCalled = true
		mu.Unlock()

		// Verify the handler is a function with the correct signature
		handlerType := reflect.TypeOf(handler)
		if handlerType.Kind() != reflect.Func {
			t.Error("Handler is not a function")
		}

		// Verify the handler has the correct signature
		contextInterface := reflect.TypeOf((*context.Context)(nil)).Elem()
		proxyRequest := reflect.TypeOf(events.APIGatewayProxyRequest{})
		proxyResponse := reflect.TypeOf(events.APIGatewayProxyResponse{})
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()

		if handlerType.NumIn() != 2 || handlerType.NumOut() != 2 ||
			!handlerType.In(0).Implements(contextInterface) ||
			handlerType.In(1) != proxyRequest ||
			handlerType.Out(0) != proxyResponse ||
			!handlerType.Out(1).Implements(errorInterface) {
			t.Error("Handler does not match expected signature")
		}
	}
	mu.Unlock()

	defer func() {
		mu.Lock()
		lambdaStart = originalStartFn
		mu.Unlock()
	}()

	// Call main() which should trigger our mock lambda.Start
	go main()

	// Give main() a moment to run
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	wasStartCalled := startCalled
	mu.Unlock()

	if !wasStartCalled {
		t.Error("Lambda start was not called")
	}
}

func TestMain(m *testing.M) {
	// Set up test environment
	err := os.Setenv("LOG_LEVEL", "debug")
	if err != nil {
		return
	}
	err = os.Setenv("ENV", "test")
	if err != nil {
		return
	}

	// Run tests
	code := m.Run()

	// Exit
	os.Exit(code)
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		setupMock      func() models.SiteFinder
		expectedStatus int
		wantErr        bool
	}{
		{
			name: "successful site lookup by ID",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"siteId": "DEN",
				},
			},
			setupMock: func() models.SiteFinder {
				return &mockSiteFinder{
					findSiteFn: func(ctx context.Context, siteID string) (*models.Site, error) {
						testSite := createTestSite(siteID)
						return &testSite, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			wantErr:        false,
		},
		{
			name: "successful nearest sites lookup",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"lat":   "39.7684",
					"lon":   "-104.8698",
					"limit": "2",
				},
			},
			setupMock: func() models.SiteFinder {
				return &mockSiteFinder{
					findNearestSitesFn: func(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error) {
						return []models.Site{
							createTestSite("DEN"),
							createTestSite("BJC"),
						}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			wantErr:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup mock and handler
			sitesHandler = handler.NewSitesHandler(tt.setupMock())

			// Call handler
			response, err := handleRequest(context.Background(), tt.request)

			// Verify response
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			// Verify response body structure
			var responseBody map[string]interface{}
			err = json.Unmarshal([]byte(response.Body), &responseBody)
			require.NoError(t, err)

			// Verify response contains expected fields
			assert.Contains(t, responseBody, "responseType")
			assert.Contains(t, responseBody, "sites")
		})
	}
}

func TestParameterValidation(t *testing.T) {
	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		expectedStatus int
		expectedError  string
	}{
		{
			name: "invalid latitude",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"lat": "91", // Invalid: latitude > 90
					"lon": "0",
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid coordinates",
		},
		{
			name: "invalid longitude",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"lat": "0",
					"lon": "181", // Invalid: longitude > 180
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid coordinates",
		},
		{
			name: "non-numeric coordinates",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"lat": "invalid",
					"lon": "-104.8698",
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create handler with empty mock
			sitesHandler = handler.NewSitesHandler(&mockSiteFinder{})

			// Call handler
			response, err := handleRequest(context.Background(), tt.request)

			// We don't expect errors from the handler itself
			require.NoError(t, err)

			// Verify response status and error message
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			var responseBody map[string]interface{}
			err = json.Unmarshal([]byte(response.Body), &responseBody)
			require.NoError(t, err)

			assert.Equal(t, "error", responseBody["responseType"])
			assert.Equal(t, tt.expectedError, responseBody["error"])
		})
	}
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		setupMock      func() models.SiteFinder
		expectedStatus int
		expectedError  string
	}{
		{
			name: "site not found",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"siteId": "NONEXISTENT",
				},
			},
			setupMock: func() models.SiteFinder {
				return &mockSiteFinder{
					findSiteFn: func(ctx context.Context, siteID string) (*models.Site, error) {
						return nil, nil // Simulate site not found
					},
				}
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Site not found",
		},
		{
			name: "internal server error during lookup",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{
					"lat": "39.7684",
					"lon": "-104.8698",
				},
			},
			setupMock: func() models.SiteFinder {
				return &mockSiteFinder{
					findNearestSitesFn: func(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error) {
						return nil, assert.AnError // Simulate internal error
					},
				}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error finding sites",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create handler with mock
			sitesHandler = handler.NewSitesHandler(tt.setupMock())

			// Call handler
			response, err := handleRequest(context.Background(), tt.request)

			// We don't expect errors from the handler itself
			require.NoError(t, err)

			// Verify response status and error message
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			var responseBody map[string]interface{}
			err = json.Unmarshal([]byte(response.Body), &responseBody)
			require.NoError(t, err)

			assert.Equal(t, "error", responseBody["responseType"])
			assert.Equal(t, tt.expectedError, responseBody["error"])
		})
	}
}
