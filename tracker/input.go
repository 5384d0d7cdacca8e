package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ByLCY/tracksheet/layout"
)

// Dialect 区分两种录入表单。
type Dialect string

const (
	DialectNumbers Dialect = "numbers" // startNumber/lastNumber/countPerGroup
	DialectAyahs   Dialect = "ayahs"   // startAyah/lastAyah/ayahsPerGroup
)

// 经文表单的下载文件名前缀与每组默认节数。
const (
	ayahFilePrefix       = "separate-ayahs-"
	defaultAyahsPerGroup = 2
)

// Input 对应录入表单提交的 JSON 对象，两种方言共用一个结构。
type Input struct {
	Title         string `json:"title"`
	StartNumber   *int   `json:"startNumber,omitempty"`
	LastNumber    *int   `json:"lastNumber,omitempty"`
	CountPerGroup *int   `json:"countPerGroup,omitempty"`
	StartAyah     *int   `json:"startAyah,omitempty"`
	LastAyah      *int   `json:"lastAyah,omitempty"`
	AyahsPerGroup *int   `json:"ayahsPerGroup,omitempty"`
	IsGrouped     bool   `json:"isGrouped,omitempty"`
	Repetitions   *int   `json:"repetitions,omitempty"`
	Orientation   string `json:"orientation,omitempty"`
	Shape         string `json:"shape,omitempty"`
	Layout        string `json:"layout,omitempty"`
	PageSize      string `json:"pageSize,omitempty"`
}

// Request 是校验通过的输入。
type Request struct {
	Config     layout.SheetConfig
	Dialect    Dialect
	FilePrefix string
}

const inputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["title"],
  "properties": {
    "title":         {"type": "string"},
    "startNumber":   {"type": "integer"},
    "lastNumber":    {"type": "integer"},
    "countPerGroup": {"type": "integer"},
    "startAyah":     {"type": "integer"},
    "lastAyah":      {"type": "integer"},
    "ayahsPerGroup": {"type": "integer"},
    "isGrouped":     {"type": "boolean"},
    "repetitions":   {"type": "integer"},
    "orientation":   {"enum": ["portrait", "landscape"]},
    "shape":         {"enum": ["circle", "square"]},
    "layout":        {"enum": ["rows", "grid"]},
    "pageSize":      {"type": "string"}
  },
  "oneOf": [
    {"required": ["startNumber", "lastNumber"], "not": {"anyOf": [{"required": ["startAyah"]}, {"required": ["lastAyah"]}, {"required": ["ayahsPerGroup"]}]}},
    {"required": ["startAyah", "lastAyah"], "not": {"anyOf": [{"required": ["startNumber"]}, {"required": ["lastNumber"]}, {"required": ["countPerGroup"]}]}}
  ]
}`

var schemaLoader = gojsonschema.NewStringLoader(inputSchema)

// DecodeInput 读取一个输入对象：先做 JSON Schema 结构校验，再按表单规则校验取值。
// maxNo <= 0 时使用 layout.DefaultMaxNo。
func DecodeInput(r io.Reader, maxNo int) (Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Request{}, fmt.Errorf("读取输入失败: %w", err)
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Request{}, fmt.Errorf("输入不是合法的 JSON: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return Request{}, fmt.Errorf("输入结构无效: %s", strings.Join(problems, "; "))
	}

	var in Input
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return Request{}, fmt.Errorf("解析输入失败: %w", err)
	}
	req, err := in.Request()
	if err != nil {
		return Request{}, err
	}
	if err := req.Config.Validate(maxNo); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Dialect 根据出现的字段判断输入方言。
func (in Input) Dialect() Dialect {
	if in.StartAyah != nil || in.LastAyah != nil || in.AyahsPerGroup != nil {
		return DialectAyahs
	}
	return DialectNumbers
}

// Request 将输入转换为渲染配置并补齐表单默认值：纵向、圆形、重复 5 次；
// 编号表单每组 1 个，经文表单固定分组、每组 2 节。
func (in Input) Request() (Request, error) {
	cfg := layout.SheetConfig{
		Title:       strings.TrimSpace(in.Title),
		Grouped:     in.IsGrouped,
		GroupSize:   1,
		Repetitions: 5,
		PageSize:    in.PageSize,
	}
	var start, last, group *int
	req := Request{Dialect: in.Dialect()}
	if req.Dialect == DialectAyahs {
		// 经文表单总是分组生成，每组默认 2 节
		start, last, group = in.StartAyah, in.LastAyah, in.AyahsPerGroup
		req.FilePrefix = ayahFilePrefix
		cfg.Grouped = true
		cfg.GroupSize = defaultAyahsPerGroup
	} else {
		start, last, group = in.StartNumber, in.LastNumber, in.CountPerGroup
	}
	if start != nil {
		cfg.Start = *start
	}
	if last != nil {
		cfg.End = *last
	}
	if group != nil {
		cfg.GroupSize = *group
	}
	if in.Repetitions != nil {
		cfg.Repetitions = *in.Repetitions
	}

	var err error
	if cfg.Orientation, err = layout.ParseOrientation(in.Orientation); err != nil {
		return Request{}, err
	}
	if cfg.Shape, err = layout.ParseShape(in.Shape); err != nil {
		return Request{}, err
	}
	switch strings.ToLower(in.Layout) {
	case "", string(layout.KindRows):
		cfg.Kind = layout.KindRows
	case string(layout.KindGrid):
		cfg.Kind = layout.KindGrid
	default:
		return Request{}, fmt.Errorf("未知的排版方式：%s", in.Layout)
	}
	req.Config = cfg
	return req, nil
}
