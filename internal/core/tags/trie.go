// Package tags 以前綴樹提供標籤自動完成建議
package tags

import (
	"sort"
	"sync"

	"recipe-book/internal/pkg/common"
)

// Node 前綴樹節點；Tags 為經過此節點的所有完整標籤
type Node struct {
	Char     rune
	Children map[rune]*Node
	Tags     map[string]struct{}
}

func newNode(c rune) *Node {
	return &Node{
		Char:     c,
		Children: make(map[rune]*Node),
		Tags:     make(map[string]struct{}),
	}
}

// Trie 大寫標籤的前綴樹，根節點代表空前綴。可供多個呼叫者同時使用
type Trie struct {
	mu   sync.RWMutex
	root *Node
}

// NewTrie 創建空的前綴樹
func NewTrie() *Trie {
	return &Trie{root: newNode(0)}
}

// Insert 將標籤正規化為大寫後插入，沿途每個節點（含根與終端節點）都記錄此標籤
func (t *Trie) Insert(tag string) {
	tag = common.NormalizeTag(tag)
	if tag == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	node.Tags[tag] = struct{}{}
	for _, c := range tag {
		child, ok := node.Children[c]
		if !ok {
			child = newNode(c)
			node.Children[c] = child
		}
		child.Tags[tag] = struct{}{}
		node = child
	}
}

// Suggest 回傳以 prefix 開頭的所有已知標籤（已排序）；路徑中斷時回傳空結果
func (t *Trie) Suggest(prefix string) []string {
	prefix = common.NormalizeTag(prefix)

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.root
	for _, c := range prefix {
		child, ok := node.Children[c]
		if !ok {
			return []string{}
		}
		node = child
	}

	out := make([]string, 0, len(node.Tags))
	for tag := range node.Tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Contains 是否已插入完全相同的標籤
func (t *Trie) Contains(tag string) bool {
	tag = common.NormalizeTag(tag)
	for _, s := range t.Suggest(tag) {
		if s == tag {
			return true
		}
	}
	return false
}

// Len 已知標籤數量
func (t *Trie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.root.Tags)
}
