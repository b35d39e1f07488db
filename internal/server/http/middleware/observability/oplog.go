package observability

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/mq/kafka"
)

var skipOpLogPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

var sensitiveKeys = []string{"password", "passwd", "pwd", "new_password", "old_password", "token", "authorization"}

const maxCapturedBody = 4096

// OperationLog 操作审计中间件：请求结束后把摘要异步投递到 Kafka，消费端落库
// 请求体里的口令、令牌字段写入前打码
func OperationLog(sender *kafka.AsyncSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPath := c.Request.URL.Path
		if _, ok := skipOpLogPaths[rawPath]; ok {
			c.Next()
			return
		}
		start := time.Now()
		var bodyBytes []byte
		if c.Request.Body != nil {
			b, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxCapturedBody))
			bodyBytes = b
			c.Request.Body = io.NopCloser(bytes.NewBuffer(b))
		}
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = rawPath
		}
		entry := map[string]interface{}{
			"action_name": deriveActionName(path),
			"path":        path,
			"method":      c.Request.Method,
			"status":      c.Writer.Status(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_id":     c.GetInt64("user_id"),
			"time":        time.Now().Format(time.RFC3339),
			"body":        sanitizeJSON(bodyBytes),
		}
		if len(c.Errors) > 0 {
			errs := make([]string, 0, len(c.Errors))
			for _, er := range c.Errors {
				errs = append(errs, er.Error())
			}
			entry["errors"] = errs
		}
		b, _ := json.Marshal(entry)
		headers := map[string]string{}
		if traceID, ok := c.Get(TraceIDKey); ok {
			if s, ok2 := traceID.(string); ok2 {
				headers["trace_id"] = s
			}
		}
		sender.Enqueue(kafka.AsyncMessage{Ctx: c.Request.Context(), Value: b, Headers: headers})
	}
}

// sanitizeJSON 对 JSON 体的敏感字段打码，非 JSON 原样截断返回
func sanitizeJSON(src []byte) string {
	if len(src) == 0 {
		return ""
	}
	var m map[string]interface{}
	if err := json.Unmarshal(src, &m); err != nil {
		return truncateString(string(src), maxCapturedBody)
	}
	for k := range m {
		lk := strings.ToLower(k)
		for _, s := range sensitiveKeys {
			if lk == s {
				m[k] = "***"
				break
			}
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return truncateString(string(b), maxCapturedBody)
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// deriveActionName 从路由路径推出动作名，如 /api/update_user -> update_user
func deriveActionName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 || idx == len(path)-1 {
		return path
	}
	return path[idx+1:]
}
