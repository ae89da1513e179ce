package rule_test

import (
	"strings"
	"testing"

	"github.com/yeisme/muzicc/pkg/rule"
)

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestContentHashRule 测试内容指纹校验规则.
func TestContentHashRule(t *testing.T) {
	valid := strings.Repeat("a", 64)
	if err := rule.ValidateVar(valid, "content_hash"); err != nil {
		t.Errorf("Expected no error for valid hash, got %v", err)
	}

	cases := []string{
		strings.Repeat("a", 63),                 // 过短
		strings.Repeat("a", 65),                 // 过长
		strings.Repeat("A", 64),                 // 大写
		strings.Repeat("g", 64),                 // 非十六进制
		"",                                      // 空
		strings.Repeat("a", 32) + " " + strings.Repeat("a", 31), // 含空格
	}
	for _, c := range cases {
		if err := rule.ValidateVar(c, "content_hash"); err == nil {
			t.Errorf("Expected error for invalid hash %q, got nil", c)
		}
	}

	if !rule.IsContentHash(valid) {
		t.Error("IsContentHash rejected a valid hash")
	}
}

// TestObjectKeyRule 测试对象键校验规则.
func TestObjectKeyRule(t *testing.T) {
	if err := rule.ValidateVar("songs/abcdef12.mp3", "object_key"); err != nil {
		t.Errorf("Expected no error for valid key, got %v", err)
	}

	cases := []string{
		"songs/abc.mp3",          // 段太短
		"songs/abcdef123.mp3",    // 段太长
		"songs/ABCDEF12.mp3",     // 大写
		"tracks/abcdef12.mp3",    // 错误前缀
		"songs/abcdef12.wav",     // 错误扩展名
		"songs/abcdef12.mp3.mp3", // 多余后缀
		"",
	}
	for _, c := range cases {
		if err := rule.ValidateVar(c, "object_key"); err == nil {
			t.Errorf("Expected error for invalid key %q, got nil", c)
		}
	}

	if !rule.IsObjectKey("songs/11111111.mp3") {
		t.Error("IsObjectKey rejected a valid key")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	// 有效 email
	err := rule.ValidateVar("test@example.com", "required,email")
	if err != nil {
		t.Errorf("Expected no error for valid email, got %v", err)
	}

	// 无效 email
	err = rule.ValidateVar("invalid-email", "required,email")
	if err == nil {
		t.Error("Expected error for invalid email, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("song_title", "max=255")

	if err := rule.ValidateVar("My Song", "song_title"); err != nil {
		t.Errorf("Expected no error for valid title with alias, got %v", err)
	}

	if err := rule.ValidateVar(strings.Repeat("x", 256), "song_title"); err == nil {
		t.Error("Expected error for overlong title with alias, got nil")
	}
}
