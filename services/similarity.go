package services

import "math"

// CosineSimilarity 计算两个向量的余弦相似度
// 长度不一致、为空或任一向量为零向量时返回 0，不报错
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	b = b[:len(a)]

	var dot, normA, normB float64
	for i, x := range a {
		y := float64(b[i])
		xf := float64(x)
		dot += xf * y
		normA += xf * xf
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// 浮点误差可能略微越界
	return max(-1, min(1, sim))
}
