package common

import (
	"errors"
	"fmt"
	"maps"
)

// DefaultKeyField 车牌字段名，与上游数据集保持一致
const DefaultKeyField = "placa"

var (
	ErrKeyMissing   = errors.New("key field missing")
	ErrKeyNotString = errors.New("key field is not a string")
)

// Record 是引擎处理的基本单元：字段名 -> 值
// 引擎只重排引用，从不修改调用方传入的 Record
type Record map[string]any

// KeyOf 读取排序/检索使用的键
func KeyOf(rec Record, field string) (string, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %q", ErrKeyMissing, field)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q has type %T", ErrKeyNotString, field, v)
	}
	return s, nil
}

// Clone 复制一条记录，值本身为标量所以浅拷贝即可
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// String 方便调试打印
func (r Record) String() string {
	return fmt.Sprintf("Record{Fields: %d}", len(r))
}

// CloneRecords 深拷贝整个序列，每次基准试验都拿到未被改动的同序输入
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// KeysOf 按顺序取出每条记录的原始键，用于比较两个序列
func KeysOf(records []Record, field string) ([]string, error) {
	out := make([]string, len(records))
	for i, r := range records {
		k, err := KeyOf(r, field)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = k
	}
	return out, nil
}
