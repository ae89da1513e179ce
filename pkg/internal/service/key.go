package service

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	keyPrefix  = "songs/"
	defaultExt = "mp3"
	keyHexLen  = 8
)

// extSanitizePattern 去掉扩展名里的非字母数字字符.
var extSanitizePattern = regexp.MustCompile(`[^a-z0-9]`)

// allowedExtensions 对象键允许的扩展名. 音频统一存为 mp3，
// 其余扩展名一律收敛到 mp3，保证键格式稳定.
var allowedExtensions = map[string]struct{}{
	defaultExt: {},
}

// sanitizeExtension 从客户端文件名提取扩展名并做白名单收敛.
// 文件名不可信：可能没有扩展名、大小写混杂、夹带特殊字符.
func sanitizeExtension(filename string) string {
	raw := defaultExt
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		raw = strings.ToLower(strings.TrimSpace(filename[idx+1:]))
	}

	ext := extSanitizePattern.ReplaceAllString(raw, "")
	if ext == "" {
		ext = defaultExt
	}

	if _, ok := allowedExtensions[ext]; !ok {
		ext = defaultExt
	}

	return ext
}

// BuildObjectKey 为一次新上传生成对象键，格式 songs/{8位十六进制}.mp3.
// 随机段取自 UUID 的前 8 个十六进制字符，与内容指纹无关，
// 同一文件重复上传会拿到不同的键，去重由指纹索引负责.
func BuildObjectKey(filename string) string {
	ext := sanitizeExtension(filename)

	u := uuid.New()
	unique := hex.EncodeToString(u[:])[:keyHexLen]

	return fmt.Sprintf("%s%s.%s", keyPrefix, unique, ext)
}
