package search

import (
	"context"
	"errors"
	"path"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/puzpuzpuz/xsync"
	"github.com/ywitter/backend/pkg/logger"
	"github.com/ywitter/backend/pkg/xcontext"
)

const (
	postDoc = "post"
	userDoc = "user"
)

type PostData struct {
	Content string
	Author  string
}

type UserData struct {
	Username string
	Bio      string
}

type Index interface {
	IndexPost(ctx context.Context, id string, data PostData) error
	IndexUser(ctx context.Context, id string, data UserData) error
	DeletePost(ctx context.Context, id string) error
	SearchPosts(ctx context.Context, query string, offset, limit int) ([]string, error)
	SearchUsers(ctx context.Context, query string, offset, limit int) ([]string, error)
	Close()
}

type bleveIndex struct {
	logger   logger.Logger
	indexDir string
	indexes  *xsync.MapOf[string, bleve.Index]
	mutex    sync.Mutex
}

// NewBleveIndex keeps one bleve index per document type under the configured
// directory, or in memory if no directory is configured.
func NewBleveIndex(ctx context.Context) *bleveIndex {
	return &bleveIndex{
		logger:   xcontext.Logger(ctx),
		indexDir: xcontext.Configs(ctx).SearchServer.IndexDir,
		indexes:  xsync.NewMapOf[bleve.Index](),
	}
}

func (i *bleveIndex) IndexPost(ctx context.Context, id string, data PostData) error {
	return i.index(postDoc, id, data)
}

func (i *bleveIndex) IndexUser(ctx context.Context, id string, data UserData) error {
	return i.index(userDoc, id, data)
}

func (i *bleveIndex) DeletePost(ctx context.Context, id string) error {
	index, err := i.getIndexByDocument(postDoc)
	if err != nil {
		return err
	}

	return index.Delete(id)
}

func (i *bleveIndex) SearchPosts(ctx context.Context, query string, offset, limit int) ([]string, error) {
	return i.search(postDoc, query, offset, limit)
}

func (i *bleveIndex) SearchUsers(ctx context.Context, query string, offset, limit int) ([]string, error) {
	return i.search(userDoc, query, offset, limit)
}

func (i *bleveIndex) Close() {
	i.logger.Infof("Closing all indexers...")

	i.indexes.Range(func(document string, index bleve.Index) bool {
		if err := index.Close(); err != nil {
			i.logger.Errorf("Cannot close indexer %s: %v", document, err)
		}

		return true
	})

	i.logger.Infof("Closing all indexers...done")
}

func (i *bleveIndex) index(document, id string, data any) error {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return err
	}

	// Index replaces the previous version of the document.
	return index.Index(id, data)
}

func (i *bleveIndex) search(document, query string, offset, limit int) ([]string, error) {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, offset, false)
	searchResults, err := index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, match := range searchResults.Hits {
		ids = append(ids, match.ID)
	}

	return ids, nil
}

func (i *bleveIndex) getIndexByDocument(document string) (bleve.Index, error) {
	if index, ok := i.indexes.Load(document); ok {
		return index, nil
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()

	if index, ok := i.indexes.Load(document); ok {
		return index, nil
	}

	index, err := i.openIndex(document)
	if err != nil {
		return nil, err
	}

	i.logger.Infof("A new document index is added: %s", document)
	i.indexes.Store(document, index)
	return index, nil
}

func (i *bleveIndex) openIndex(document string) (bleve.Index, error) {
	if i.indexDir == "" {
		return bleve.NewMemOnly(bleve.NewIndexMapping())
	}

	indexPath := path.Join(i.indexDir, document)
	index, err := bleve.New(indexPath, bleve.NewIndexMapping())
	if err != nil {
		if !errors.Is(err, bleve.ErrorIndexPathExists) {
			return nil, err
		}

		return bleve.Open(indexPath)
	}

	return index, nil
}
