// Package model 定义持久化实体及其关系
package model

// All 返回全部实体，顺序即迁移顺序（被引用的表在前）
func All() []any {
	return []any{&User{}, &Post{}, &Comment{}, &Like{}, &Follow{}}
}
