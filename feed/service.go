package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/core"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/exposure"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/filter"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/pipeline"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/rank"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/recall"
	"github.com/mhg840372-dotcom/quickchatx-backend-sub001/rerank"
)

const (
	// DefaultLimit 是调用方未指定条数时的默认返回条数。
	DefaultLimit = 50

	// DefaultCacheTTL 是 Feed 结果缓存的秒数。短 TTL：结果最多落后 30 秒，
	// 换掉重复请求的全链路开销。
	DefaultCacheTTL = 30

	// DefaultDependencyTimeout 是单个依赖（兴趣画像/关注集）的加载超时。
	DefaultDependencyTimeout = 2 * time.Second

	// DefaultExperimentKey 是 Feed 排序实验的分桶 key。
	DefaultExperimentKey = "feed_ranking"

	cacheKeyPrefix = "feed:result:"
)

// Request 是一次 Feed 排序请求。
type Request struct {
	UserID string
	Scene  string

	// Limit 期望返回的条数，<=0 时用 DefaultLimit。
	Limit int

	// VariantHint 调用方指定的变体（调试/灰度用）；已注册时跳过实验分桶。
	VariantHint string
}

// RankedItem 是排序结果中的一条：候选本体 + 分数拆解。
type RankedItem struct {
	Candidate *core.Candidate      `json:"candidate"`
	Breakdown *core.ScoreBreakdown `json:"breakdown,omitempty"`
}

// Result 是排序结果。空 Items 是合法结果（没有可推内容），
// 与 ErrCandidatesUnavailable（来源挂了）语义不同。
type Result struct {
	Items     []RankedItem `json:"items"`
	Variant   string       `json:"variant"`
	FromCache bool         `json:"-"`
}

// RankingService 是 Feed 排序的编排层：
// 分桶定变体 → 查缓存 → 并行加载用户上下文（可降级）→ 跑 Pipeline →
// 回填缓存 → 异步记曝光。
//
// 降级约定：
//   - 兴趣画像/关注集加载失败：填空降级（个性化分量退化为 0），只记日志
//   - 实验分桶失败：回退 DefaultVariant
//   - 候选来源失败：返回 ErrCandidatesUnavailable，这是唯一的整体失败
type RankingService struct {
	Pipeline   *pipeline.Pipeline
	Interests  core.InterestReader
	Candidates core.CandidateStore
	Assigner   core.ExperimentAssigner

	// Cache 为 nil 时不走缓存。
	Cache core.Store

	// Exposure 为 nil 时不记曝光。
	Exposure exposure.Collector

	Logger *slog.Logger

	// ExperimentKey 分桶实验 key，空时用 DefaultExperimentKey。
	ExperimentKey string

	// CacheTTL 缓存秒数，<=0 时用 DefaultCacheTTL。
	CacheTTL int

	// DependencyTimeout 单依赖加载超时，<=0 时用 DefaultDependencyTimeout。
	DependencyTimeout time.Duration
}

// NewRankingService 用默认 Pipeline（近期窗口召回 → 过滤 → 多信号排序 → Top-N 截断）
// 构造编排服务。需要自定义 Pipeline（加召回源、换节点）时直接构造结构体。
func NewRankingService(
	candidates core.CandidateStore,
	interests core.InterestReader,
	assigner core.ExperimentAssigner,
	filters ...filter.Filter,
) *RankingService {
	return &RankingService{
		Pipeline:   DefaultPipeline(candidates, filters...),
		Interests:  interests,
		Candidates: candidates,
		Assigner:   assigner,
	}
}

// DefaultPipeline 组装标准的四段 Feed Pipeline。
func DefaultPipeline(candidates core.CandidateStore, filters ...filter.Filter) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.Recent{Candidates: candidates},
	}
	if len(filters) > 0 {
		nodes = append(nodes, &filter.FilterNode{Filters: filters})
	}
	nodes = append(nodes,
		&rank.ScoreNode{Scorer: &rank.Scorer{}},
		&rerank.TopNNode{},
	)
	return &pipeline.Pipeline{Nodes: nodes}
}

// Rank 执行一次 Feed 排序。
func (s *RankingService) Rank(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == "" {
		return nil, core.NewDomainError(core.ModuleFeed, core.ErrorCodeInvalidInput, "feed: userID is required")
	}
	if s.Pipeline == nil {
		return nil, core.NewDomainError(core.ModuleFeed, core.ErrorCodeInternalError, "feed: pipeline is not configured")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	variant := s.resolveVariant(ctx, req)

	cacheKey := fmt.Sprintf("%s%s:%d:%s", cacheKeyPrefix, req.UserID, limit, variant)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		cached.FromCache = true
		return cached, nil
	}

	rctx := &core.RankContext{
		UserID:  req.UserID,
		Scene:   req.Scene,
		Variant: variant,
		Limit:   limit,
	}
	s.loadUserContext(ctx, rctx)

	items, err := s.Pipeline.Run(ctx, rctx, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// Pipeline 里只有召回会失败（过滤/排序都按降级处理），
		// 统一归为候选来源不可用
		s.logger().Error("feed candidate source failed",
			"user_id", req.UserID, "variant", variant, "err", err)
		return nil, core.ErrCandidatesUnavailable
	}

	result := &Result{
		Items:   make([]RankedItem, 0, len(items)),
		Variant: variant,
	}
	for _, c := range items {
		if c == nil {
			continue
		}
		result.Items = append(result.Items, RankedItem{Candidate: c, Breakdown: c.Breakdown})
	}

	s.cacheSet(ctx, cacheKey, result)

	if s.Exposure != nil && len(items) > 0 {
		s.Exposure.Log(ctx, exposure.FromCandidates(rctx, items))
	}
	return result, nil
}

// resolveVariant 决定本次请求的变体：hint > 实验分桶 > 兜底默认。
func (s *RankingService) resolveVariant(ctx context.Context, req Request) string {
	if req.VariantHint != "" {
		if _, ok := rank.WeightsFor(rank.Variant(req.VariantHint)); ok {
			return req.VariantHint
		}
		s.logger().Warn("unknown variant hint, falling back to bucketing",
			"user_id", req.UserID, "hint", req.VariantHint)
	}
	if s.Assigner == nil {
		return string(rank.DefaultVariant)
	}
	key := s.ExperimentKey
	if key == "" {
		key = DefaultExperimentKey
	}
	variant, err := s.Assigner.AssignVariant(ctx, req.UserID, key, rank.VariantNames())
	if err != nil {
		s.logger().Warn("experiment bucketing failed, using default variant",
			"user_id", req.UserID, "err", err)
		return string(rank.DefaultVariant)
	}
	return variant
}

// loadUserContext 并行加载兴趣画像与关注集，任一失败填空降级。
func (s *RankingService) loadUserContext(ctx context.Context, rctx *core.RankContext) {
	timeout := s.DependencyTimeout
	if timeout <= 0 {
		timeout = DefaultDependencyTimeout
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if s.Interests == nil {
			return nil
		}
		depCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		interests, err := s.Interests.GetAll(depCtx, rctx.UserID)
		if err != nil {
			s.logger().Warn("interest load failed, ranking without personalization",
				"user_id", rctx.UserID, "err", err)
			return nil
		}
		rctx.Interests = interests
		return nil
	})
	eg.Go(func() error {
		if s.Candidates == nil {
			return nil
		}
		depCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		following, err := s.Candidates.GetFollowing(depCtx, rctx.UserID)
		if err != nil {
			s.logger().Warn("following load failed, ranking without follow signal",
				"user_id", rctx.UserID, "err", err)
			return nil
		}
		rctx.Following = following
		return nil
	})
	_ = eg.Wait()

	if rctx.Interests == nil {
		rctx.Interests = map[string]float64{}
	}
	if rctx.Following == nil {
		rctx.Following = map[string]struct{}{}
	}
}

func (s *RankingService) cacheGet(ctx context.Context, key string) (*Result, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		// 缓存损坏按 miss 处理，重算会覆盖
		return nil, false
	}
	return &result, true
}

func (s *RankingService) cacheSet(ctx context.Context, key string, result *Result) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.Cache.Set(ctx, key, raw, ttl); err != nil {
		s.logger().Warn("feed cache write failed", "key", key, "err", err)
	}
}

func (s *RankingService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
