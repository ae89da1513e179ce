// Package rule 提供结构体和字段验证功能的封装，基于 go-playground/validator 实现.
package rule

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	inst *validator.Validate
	once sync.Once
)

var (
	// contentHashPattern 音频内容指纹：64位小写十六进制.
	contentHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)
	// objectKeyPattern 对象键的线上格式，必须逐字匹配.
	objectKeyPattern = regexp.MustCompile(`^songs/[0-9a-f]{8}\.mp3$`)
)

// initValidator 尝试复用 gin 的 validator 引擎；若不可用则新建并注册 tag name 函数.
func initValidator() {
	if engine := binding.Validator.Engine(); engine != nil {
		if v, ok := engine.(*validator.Validate); ok {
			inst = v
			inst.SetTagName("rule")

			registerSongRules()

			return
		}
	}

	inst = validator.New()
	inst.SetTagName("rule")

	registerSongRules()
}

// registerSongRules 注册歌曲业务相关的自定义规则.
func registerSongRules() {
	_ = inst.RegisterValidation("content_hash", func(fl validator.FieldLevel) bool {
		return contentHashPattern.MatchString(fl.Field().String())
	})
	_ = inst.RegisterValidation("object_key", func(fl validator.FieldLevel) bool {
		return objectKeyPattern.MatchString(fl.Field().String())
	})
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，若未初始化则先初始化.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 代理 RegisterValidation，确保已初始化.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidateStruct 对结构体执行完整校验，返回原始 error.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias 包装 RegisterAlias，便于注册别名规则.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}

// IsContentHash 判断字符串是否为合法的内容指纹.
func IsContentHash(s string) bool {
	return contentHashPattern.MatchString(s)
}

// IsObjectKey 判断字符串是否为合法的歌曲对象键.
func IsObjectKey(s string) bool {
	return objectKeyPattern.MatchString(s)
}
