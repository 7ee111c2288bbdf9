package docs

// @title Sprout 内容推荐引擎 API
// @version 1.0
// @description 跨来源热点主题检测、话题兴趣学习、个性化信息流、每日摘要与混合检索
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @schemes http https
