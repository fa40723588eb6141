// Package firestore implementa la fuente documental sobre Cloud Firestore.
// Un path con número par de segmentos es un documento; impar, una colección.
package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/farma-analytics/internal/domain/repository"
)

var _ repository.DocumentSource = (*Source)(nil)

// Source lectura de solo consulta sobre un proyecto Firestore.
type Source struct {
	client *firestore.Client
}

// New abre el cliente. Sin credentialsFile usa Application Default Credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Source, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.New: %w", err)
	}
	return &Source{client: client}, nil
}

// Close libera el cliente.
func (s *Source) Close() error { return s.client.Close() }

// Fetch lee un documento (sus campos) o una colección (id → campos).
func (s *Source) Fetch(ctx context.Context, path string) (any, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}
	if isCollection(path) {
		return s.fetchCollection(ctx, path)
	}
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("firestore.Fetch %s: %w", path, err)
	}
	return plain(snap.Data()), nil
}

func (s *Source) fetchCollection(ctx context.Context, path string) (any, error) {
	it := s.client.Collection(path).Documents(ctx)
	defer it.Stop()

	out := make(map[string]any)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil, nil
			}
			return nil, fmt.Errorf("firestore.Fetch %s: %w", path, err)
		}
		out[doc.Ref.ID] = plain(doc.Data())
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func isCollection(path string) bool {
	return len(strings.Split(path, "/"))%2 == 1
}

// plain convierte los tipos propios de Firestore a valores genéricos del árbol.
func plain(v any) any {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plain(val)
		}
		return out
	case []interface{}:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plain(val)
		}
		return out
	case *firestore.DocumentRef:
		if t == nil {
			return nil
		}
		return t.ID
	case *latlng.LatLng:
		if t == nil {
			return nil
		}
		return map[string]any{"lat": t.GetLatitude(), "long": t.GetLongitude()}
	default:
		return v
	}
}
