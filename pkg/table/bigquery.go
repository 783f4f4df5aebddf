package table

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/bigquery"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/nova/pkg/config"
	"github.com/ajitpratap0/nova/pkg/errors"
)

// BigQueryClient fetches rows from BigQuery tables via the tabledata
// read path (no query job, no staging).
type BigQueryClient struct {
	projectID string
	opts      []option.ClientOption
}

// NewBigQueryClient creates a BigQuery table client for the given
// billing project
func NewBigQueryClient(projectID string, opts ...option.ClientOption) *BigQueryClient {
	return &BigQueryClient{projectID: projectID, opts: opts}
}

// NewBigQueryClientFromConfig builds a client from the table section of
// the Nova configuration, resolving credentials from either a service
// account key file or a static OAuth2 access token.
func NewBigQueryClientFromConfig(cfg config.TableConfig) *BigQueryClient {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else if cfg.AccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
		opts = append(opts, option.WithTokenSource(ts))
	}
	return NewBigQueryClient(cfg.ProjectID, opts...)
}

// FetchRows opens a direct row stream over the table
func (c *BigQueryClient) FetchRows(ctx context.Context, spec Spec) (RowIterator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	client, err := bigquery.NewClient(ctx, c.projectID, c.opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create BigQuery client")
	}

	project := spec.Project
	if project == "" {
		project = c.projectID
	}
	it := client.DatasetInProject(project, spec.Dataset).Table(spec.Table).Read(ctx)

	return &bqIterator{it: it, client: client, ref: spec.Reference()}, nil
}

type bqIterator struct {
	it     *bigquery.RowIterator
	client *bigquery.Client
	ref    string
}

func (b *bqIterator) Next() (map[string]interface{}, error) {
	var row map[string]bigquery.Value
	err := b.it.Next(&row)
	if err == iterator.Done {
		return nil, iterator.Done
	}
	if err != nil {
		var apiErr *googleapi.Error
		if stderrors.As(err, &apiErr) && apiErr.Code == 404 {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "table does not exist").WithDetail("table", b.ref)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to read table row").WithDetail("table", b.ref)
	}

	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = fromBigQueryValue(v)
	}
	return out, nil
}

func (b *bqIterator) Close() error {
	return b.client.Close()
}

// fromBigQueryValue strips bigquery.Value wrappers from nested rows so
// callers see plain maps and slices
func fromBigQueryValue(v bigquery.Value) interface{} {
	switch val := v.(type) {
	case []bigquery.Value:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = fromBigQueryValue(e)
		}
		return out
	case map[string]bigquery.Value:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = fromBigQueryValue(e)
		}
		return out
	default:
		return val
	}
}
