package health_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehubapp/lifehub/svc/health"
)

func TestOpenFDAClientDrugLabel(t *testing.T) {
	t.Parallel()

	t.Run("parses a label", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/drug/label.json", r.URL.Path)
			assert.Contains(t, r.URL.Query().Get("search"), "Advil")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"results": [{
					"purpose": ["Pain reliever/fever reducer"],
					"warnings": ["Allergy alert: ibuprofen may cause a severe allergic reaction."],
					"dosage_and_administration": ["do not take more than directed"],
					"openfda": {
						"brand_name": ["Advil"],
						"generic_name": ["Ibuprofen"]
					}
				}]
			}`))
		}))
		defer srv.Close()

		client := health.NewOpenFDAClient(health.WithBaseURL(srv.URL))
		label, err := client.DrugLabel(context.Background(), "Advil")
		require.NoError(t, err)
		assert.Equal(t, "Advil", label.BrandName)
		assert.Equal(t, "Ibuprofen", label.GenericName)
		require.Len(t, label.Purpose, 1)
		assert.Contains(t, label.Warnings[0], "ibuprofen")
	})

	t.Run("404 means not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		client := health.NewOpenFDAClient(health.WithBaseURL(srv.URL))
		_, err := client.DrugLabel(context.Background(), "nosuchdrug")
		require.ErrorIs(t, err, health.ErrDrugNotFound)
	})

	t.Run("empty result set means not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results": []}`))
		}))
		defer srv.Close()

		client := health.NewOpenFDAClient(health.WithBaseURL(srv.URL))
		_, err := client.DrugLabel(context.Background(), "whatever")
		require.ErrorIs(t, err, health.ErrDrugNotFound)
	})

	t.Run("server errors degrade to unavailable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := health.NewOpenFDAClient(health.WithBaseURL(srv.URL))
		_, err := client.DrugLabel(context.Background(), "Advil")
		require.ErrorIs(t, err, health.ErrDrugLookupUnavailable)
	})
}
