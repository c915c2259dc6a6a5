package es

import (
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/textquerytype"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const videoStatusCompleted = "completed"

// SearchRepo 用户与视频的全文检索，只返回 id，详情回表查询
type SearchRepo interface {
	IndexUser(ctx context.Context, user *UserES, version int64) error
	IndexVideo(ctx context.Context, video *VideoES, version int64) error
	DeleteVideo(ctx context.Context, id uint64) error
	SearchUserIDs(ctx context.Context, q string, limit int) ([]uint64, error)
	SearchVideoIDs(ctx context.Context, q string, viewerID uint64, limit int) ([]uint64, error)
}

type SearchRepoImpl struct {
	client     *elasticsearch.TypedClient
	userIndex  string
	videoIndex string
}

func NewSearchRepo(client *elasticsearch.TypedClient, userIndex, videoIndex string) SearchRepo {
	return &SearchRepoImpl{client: client, userIndex: userIndex, videoIndex: videoIndex}
}

func (s *SearchRepoImpl) IndexUser(ctx context.Context, user *UserES, version int64) error {
	_, err := s.client.Index(s.userIndex).
		Id(strconv.FormatUint(user.ID, 10)).
		Document(user).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)
	return ignoreStatus(err, ConflictCode)
}

func (s *SearchRepoImpl) IndexVideo(ctx context.Context, video *VideoES, version int64) error {
	_, err := s.client.Index(s.videoIndex).
		Id(strconv.FormatUint(video.ID, 10)).
		Document(video).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)
	return ignoreStatus(err, ConflictCode)
}

func (s *SearchRepoImpl) DeleteVideo(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(s.videoIndex, strconv.FormatUint(id, 10)).Do(ctx)
	if err = ignoreStatus(err, NotFoundCode); err != nil {
		return err
	}
	return nil
}

func (s *SearchRepoImpl) SearchUserIDs(ctx context.Context, q string, limit int) ([]uint64, error) {
	req := s.client.Search().Index(s.userIndex).Size(limit).Query(&types.Query{
		Bool: &types.BoolQuery{
			Filter: []types.Query{
				{Term: map[string]types.TermQuery{"is_active": {Value: true}}},
			},
			Must: []types.Query{{
				MultiMatch: &types.MultiMatchQuery{
					Query:  q,
					Fields: []string{"username^2", "display_name"},
					Type:   &textquerytype.Boolprefix,
				},
			}},
		},
	})
	return s.executeIDs(ctx, req)
}

// SearchVideoIDs 仅返回已完成的视频；私密视频只对作者可见
func (s *SearchRepoImpl) SearchVideoIDs(ctx context.Context, q string, viewerID uint64, limit int) ([]uint64, error) {
	visibility := []types.Query{
		{Term: map[string]types.TermQuery{"is_public": {Value: true}}},
	}
	if viewerID != 0 {
		visibility = append(visibility, types.Query{
			Term: map[string]types.TermQuery{"user_id": {Value: viewerID}},
		})
	}

	req := s.client.Search().Index(s.videoIndex).Size(limit).Query(&types.Query{
		Bool: &types.BoolQuery{
			Filter: []types.Query{
				{Term: map[string]types.TermQuery{"status": {Value: videoStatusCompleted}}},
				{Bool: &types.BoolQuery{Should: visibility, MinimumShouldMatch: 1}},
			},
			Must: []types.Query{{
				MultiMatch: &types.MultiMatchQuery{
					Query:  q,
					Fields: []string{"caption", "hashtags^2"},
				},
			}},
		},
	})
	return s.executeIDs(ctx, req)
}

func (s *SearchRepoImpl) executeIDs(ctx context.Context, req *search.Search) ([]uint64, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc struct {
			ID uint64 `json:"id"`
		}
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			log.WarnContext(ctx, "skip malformed search hit", "err", err)
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func ignoreStatus(err error, status int) error {
	if err == nil {
		return nil
	}
	var e *types.ElasticsearchError
	if errors.As(err, &e) && e.Status == status {
		return nil
	}
	return err
}
