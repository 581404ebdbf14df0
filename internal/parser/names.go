package parser

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// programAliases 竞赛项目名称的简称
var programAliases = map[string]string{
	"Thi đua Iphone 17 series":                  "IPHONE 17",
	"BÁN HÀNG PANASONIC":                        "Panasonic",
	"Tủ lạnh, tủ đông, tủ mát":                  "Tủ lạnh/đông/mát",
	"BÁN HÀNG ĐIỆN TỬ & ĐIỆN LẠNH HÃNG SAMSUNG": "Samsung ĐT/ĐL",
	"NH MÁY GIẶT, SẤY":                          "Máy giặt/sấy",
	"TRẢ CHẬM FECREDIT, TPBANK EVO":             "FE/TPB",
	"PHỤ KIỆN - ĐỒNG HỒ":                        "PK - Đồng hồ",
	"ĐIỆN THOẠI & TABLET ANDROID TRÊN 7 TRIỆU":  "Android > 7Tr",
	"NẠP RÚT TIỀN TÀI KHOẢN NGÂN HÀNG":          "Nạp/Rút NH",
	"Thi đua Vivo":                              "Vivo",
	"Thi đua Realme":                            "Realme",
	"Đồng hồ thời trang":                        "ĐH thời trang",
	"VÍ TRẢ SAU":                                "Ví",
	"HOMECREDIT":                                "HC",
	"TIỀN MẶT CAKE":                             "Cake",
}

// salesPrefix "BÁN HÀNG <HÃNG> ..." 只保留品牌
const salesPrefix = "BÁN HÀNG "

// aliasKeys 按长度降序，较长（更具体）的名称优先匹配
var aliasKeys = func() []string {
	keys := make([]string, 0, len(programAliases))
	for k := range programAliases {
		keys = append(keys, NormalizeText(k))
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

var normalizedAliases = func() map[string]string {
	m := make(map[string]string, len(programAliases))
	for k, v := range programAliases {
		m[NormalizeText(k)] = v
	}
	return m
}()

// ShortenProgramName 竞赛项目的显示名称
// 顺序：完全匹配 > 最长前缀匹配 > "BÁN HÀNG" 品牌规则 > 原样返回
func ShortenProgramName(title string) string {
	title = NormalizeText(strings.TrimSpace(title))
	if v, ok := normalizedAliases[title]; ok {
		return v
	}
	for _, k := range aliasKeys {
		if strings.HasPrefix(title, k) {
			return normalizedAliases[k]
		}
	}
	if strings.HasPrefix(title, salesPrefix) {
		rest := strings.TrimSpace(strings.TrimPrefix(title, salesPrefix))
		if words := strings.Fields(rest); len(words) > 0 {
			return words[0]
		}
	}
	return title
}

// FormatEmployeeName "Nguyễn Văn An - 12345" → "12345 - V.An"
// 没有中间名时取名字首字母；单个词直接拼接；不含分隔符则原样返回
func FormatEmployeeName(fullName string) string {
	name, id, ok := strings.Cut(fullName, " - ")
	if !ok {
		return fullName
	}
	if i := strings.Index(id, " - "); i >= 0 {
		id = id[:i]
	}

	words := strings.Fields(name)
	if len(words) < 2 {
		return id + " - " + name
	}

	last := words[len(words)-1]
	initialFrom := words[0]
	if len(words) > 2 {
		initialFrom = words[len(words)-2]
	}
	return id + " - " + initial(initialFrom) + "." + last
}

func initial(word string) string {
	r, _ := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
