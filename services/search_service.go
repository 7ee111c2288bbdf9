package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sprout/config"
	"sprout/logger"
	"sprout/metrics"
	"sprout/models"
	"sprout/repository"
)

const (
	crossMethodBoost = 1.5 // 同时被两种方式命中
	semanticDiscount = 0.8 // 仅语义命中

	// 语义检索扫描的候选上限
	semanticScanLimit = 5000
)

var errSemanticUnavailable = errors.New("semantic search unavailable")

// MergeSearchResults 合并关键词与语义检索结果
//
// 关键词第 i 名得 len(keyword)-i 分；语义第 j 名若已被关键词命中则加 (len(semantic)-j)*1.5，
// 否则以 (len(semantic)-j)*0.8 加入。按得分降序（同分保持首次出现顺序），截断到 limit。
// 同一列表内的重复项只计第一次。limit <= 0 时不截断。
func MergeSearchResults[K comparable](keyword, semantic []K, limit int) []K {
	scores := make(map[K]float64, len(keyword)+len(semantic))
	order := make([]K, 0, len(keyword)+len(semantic))

	for i, id := range keyword {
		if _, ok := scores[id]; ok {
			continue
		}
		scores[id] = float64(len(keyword) - i)
		order = append(order, id)
	}

	seen := make(map[K]bool, len(semantic))
	for j, id := range semantic {
		if seen[id] {
			continue
		}
		seen[id] = true
		s := float64(len(semantic) - j)
		if _, ok := scores[id]; ok {
			scores[id] += s * crossMethodBoost
			continue
		}
		scores[id] = s * semanticDiscount
		order = append(order, id)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

type semanticMatch struct {
	id  int64
	sim float64
}

// SemanticSearch 对查询向量化后在近期内容中按余弦相似度排序
func SemanticSearch(ctx context.Context, cfg *config.Config, embedder Embedder, query string, limit int) ([]int64, error) {
	if embedder == nil {
		return nil, errSemanticUnavailable
	}
	vec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embedding query: empty vector")
	}

	since := time.Now().AddDate(0, 0, -cfg.Engine.SemanticWindowDays)
	pool, err := repository.ListEmbeddedContent(ctx, since, semanticScanLimit)
	if err != nil {
		return nil, err
	}

	matches := make([]semanticMatch, 0, len(pool))
	for _, c := range pool {
		sim := CosineSimilarity(vec, c.Embedding)
		if sim > cfg.Engine.SemanticMinSimilarity {
			matches = append(matches, semanticMatch{id: c.ID, sim: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].sim > matches[j].sim
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.id
	}
	return ids, nil
}

// Search 关键词与语义混合检索，语义分支失败时只返回关键词结果
func Search(ctx context.Context, cfg *config.Config, embedder Embedder, query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = cfg.Engine.SearchLimit
	}

	keyword, err := repository.SearchContentByKeyword(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	semantic, err := SemanticSearch(ctx, cfg, embedder, query, limit)
	if err != nil {
		logger.Warn("Semantic search failed, using keyword results only", "query", query, "error", err)
		metrics.SearchRequests.WithLabelValues("keyword_only").Inc()
		semantic = nil
	} else {
		metrics.SearchRequests.WithLabelValues("merged").Inc()
	}

	ids := MergeSearchResults(keyword, semantic, limit)
	hits, err := repository.GetSearchHits(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchHit, 0, len(ids))
	for _, id := range ids {
		if h, ok := hits[id]; ok {
			results = append(results, h)
		}
	}
	logger.Debug("Search finished", "query", query, "keyword", len(keyword), "semantic", len(semantic), "returned", len(results))
	return results, nil
}
