// Package fetch downloads result files from an Azure Blob Storage container
// so they can be collected locally. Experiment runs on the cluster upload
// their JSON outputs to a per-figure prefix; fetch mirrors one prefix into a
// local directory.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Options configures one fetch run.
type Options struct {
	Account   string // storage account name
	Container string
	Prefix    string // blob name prefix to mirror, may be empty
	DestDir   string // local directory to download into
	Extension string // only blobs with this extension (or extension + ".gz")
}

// Run mirrors all matching blobs into DestDir and returns how many files
// were downloaded. Credentials come from the environment via
// DefaultAzureCredential (CLI login, managed identity, service principal).
func Run(ctx context.Context, opts Options) (int, error) {
	if opts.Account == "" || opts.Container == "" {
		return 0, fmt.Errorf("fetch requires a storage account and container (set fetch.account and fetch.container in .amrcollect.yaml)")
	}
	if opts.Extension == "" {
		opts.Extension = ".json"
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return 0, fmt.Errorf("building Azure credential: %w", err)
	}

	client, err := azblob.NewClient(ServiceURL(opts.Account), cred, nil)
	if err != nil {
		return 0, fmt.Errorf("building blob client: %w", err)
	}

	return download(ctx, client, opts)
}

func download(ctx context.Context, client *azblob.Client, opts Options) (int, error) {
	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating destination directory: %w", err)
	}

	pager := client.NewListBlobsFlatPager(opts.Container, &azblob.ListBlobsFlatOptions{
		Prefix: &opts.Prefix,
	})

	count := 0
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return count, classifyAzureError(opts.Container, err)
		}

		for _, item := range page.Segment.BlobItems {
			if item.Name == nil || !Matches(*item.Name, opts.Extension) {
				continue
			}

			dest := DestPath(opts.DestDir, *item.Name, opts.Prefix)
			if err := downloadBlob(ctx, client, opts.Container, *item.Name, dest); err != nil {
				return count, err
			}
			slog.Debug("downloaded result blob", "blob", *item.Name, "dest", dest)
			count++
		}
	}

	return count, nil
}

func downloadBlob(ctx context.Context, client *azblob.Client, containerName, blobName, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := client.DownloadFile(ctx, containerName, blobName, f, nil); err != nil {
		return classifyAzureError(containerName, fmt.Errorf("downloading %s: %w", blobName, err))
	}
	return nil
}

// classifyAzureError gives container-not-found a clearer message; everything
// else passes through wrapped.
func classifyAzureError(containerName string, err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == 404 {
		return fmt.Errorf("container %q not found: %w", containerName, err)
	}
	return err
}

// ParseContainerURL splits a container URL of the form
// https://ACCOUNT.blob.core.windows.net/CONTAINER[/PREFIX] into its account,
// container and optional prefix parts.
func ParseContainerURL(raw string) (account, container, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("parsing container URL: %w", err)
	}

	host, ok := strings.CutSuffix(u.Hostname(), ".blob.core.windows.net")
	if !ok || host == "" {
		return "", "", "", fmt.Errorf("container URL %q: host must be ACCOUNT.blob.core.windows.net", raw)
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", "", "", fmt.Errorf("container URL %q: missing container name", raw)
	}
	container, prefix, _ = strings.Cut(path, "/")

	return host, container, prefix, nil
}

// ServiceURL builds the blob endpoint for a storage account.
func ServiceURL(account string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/", account)
}

// Matches reports whether a blob name looks like a result file.
func Matches(name, ext string) bool {
	return strings.HasSuffix(name, ext) || strings.HasSuffix(name, ext+".gz")
}

// DestPath maps a blob name to its local path, dropping the mirrored prefix
// so the destination directory starts at the interesting part of the tree.
func DestPath(destDir, blobName, prefix string) string {
	rel := strings.TrimPrefix(blobName, prefix)
	rel = strings.TrimPrefix(rel, "/")
	return filepath.Join(destDir, filepath.FromSlash(rel))
}
