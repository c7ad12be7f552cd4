package utils

import (
	"crypto/rand"
	"encoding/binary"
	"strings"
	"unicode"
)

// RandomInt32 生成一个安全的随机32位整数
func RandomInt32() int32 {
	var num int32
	err := binary.Read(rand.Reader, binary.BigEndian, &num)
	if err != nil {
		panic("generate random int32 failed")
	}

	return num
}

// NormalizeKey 规范化键名：转小写、去首尾空白、内部空白和连字符折叠为单个下划线
func NormalizeKey(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte('_')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// DigitsOnly 去除字符串中的所有非数字字符
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitList 按 | ; 或 , 分割列表字段，去除空白并丢弃空项
func SplitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ';'
	})
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
