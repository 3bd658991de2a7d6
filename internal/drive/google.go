package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/aube/minimal-log/internal/config"
	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/models"
)

const appDataFolder = "appDataFolder"

// GoogleSessionFactory builds authenticated Google Drive clients scoped to
// the application-data folder. It reads the OAuth client configuration from
// cfg.CredentialsFile and a per-account token from cfg.TokenDir/<account>.json;
// obtaining and refreshing those tokens is the sign-in flow's responsibility.
type GoogleSessionFactory struct {
	cfg    config.Drive
	logger *logger.Logger
}

func NewGoogleSessionFactory(cfg config.Drive, log *logger.Logger) *GoogleSessionFactory {
	return &GoogleSessionFactory{cfg: cfg, logger: log}
}

// Create implements [SessionFactory].
func (f *GoogleSessionFactory) Create(ctx context.Context, account string) (Client, error) {
	if account == "" {
		return nil, fmt.Errorf("create drive session: account is empty")
	}

	credBytes, err := os.ReadFile(f.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(credBytes, driveapi.DriveAppdataScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	tok, err := f.loadToken(account)
	if err != nil {
		return nil, err
	}

	svc, err := driveapi.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	f.logger.Debug().
		Str("func", "GoogleSessionFactory.Create").
		Str("account", account).
		Msg("drive session created")

	return &googleClient{svc: svc}, nil
}

func (f *GoogleSessionFactory) loadToken(account string) (*oauth2.Token, error) {
	path := filepath.Join(f.cfg.TokenDir, account+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drive token for %s: %w", account, err)
	}

	var tok oauth2.Token
	if err = json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode drive token for %s: %w", account, err)
	}

	return &tok, nil
}

type googleClient struct {
	svc *driveapi.Service
}

func (c *googleClient) List(ctx context.Context, q Query) ([]models.BackupObject, error) {
	call := c.svc.Files.List().
		Spaces(appDataFolder).
		Q(buildQuery(q)).
		OrderBy("modifiedTime desc").
		Fields("files(id,name,modifiedTime,size,mimeType)")
	if q.PageSize > 0 {
		call = call.PageSize(q.PageSize)
	}

	list, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list drive objects: %w", err)
	}

	objects := make([]models.BackupObject, 0, len(list.Files))
	for _, f := range list.Files {
		objects = append(objects, toBackupObject(f))
	}

	return objects, nil
}

func (c *googleClient) Download(ctx context.Context, id string, dst io.Writer) error {
	resp, err := c.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("download drive object %s: %w", id, err)
	}
	defer resp.Body.Close()

	if _, err = io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("stream drive object %s: %w", id, err)
	}

	return nil
}

func (c *googleClient) Upload(ctx context.Context, name, mimeType string, src io.Reader) (models.BackupObject, error) {
	meta := &driveapi.File{
		Name:     name,
		Parents:  []string{appDataFolder},
		MimeType: mimeType,
	}

	created, err := c.svc.Files.Create(meta).
		Media(src, googleapi.ContentType(mimeType)).
		Fields("id,name,createdTime,modifiedTime,size,mimeType,parents").
		Context(ctx).
		Do()
	if err != nil {
		return models.BackupObject{}, fmt.Errorf("create drive object %s: %w", name, err)
	}

	return toBackupObject(created), nil
}

func buildQuery(q Query) string {
	clauses := []string{"trashed=false"}

	if q.NameContains != "" {
		clauses = append(clauses, fmt.Sprintf("name contains '%s'", q.NameContains))
	}

	if len(q.MimeTypes) > 0 {
		types := make([]string, 0, len(q.MimeTypes))
		for _, mt := range q.MimeTypes {
			types = append(types, fmt.Sprintf("mimeType='%s'", mt))
		}
		clauses = append(clauses, "("+strings.Join(types, " or ")+")")
	}

	return strings.Join(clauses, " and ")
}

func toBackupObject(f *driveapi.File) models.BackupObject {
	modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)

	return models.BackupObject{
		ID:           f.Id,
		Name:         f.Name,
		ModifiedTime: modified,
		Size:         f.Size,
		MimeType:     f.MimeType,
	}
}
