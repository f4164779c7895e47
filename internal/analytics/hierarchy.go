package analytics

// UserNode is the minimum a user needs to be placed in the reporting tree.
type UserNode struct {
	ID        string `json:"id"`
	ManagerID string `json:"manager_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// TreeNode is a user with their direct reports.
type TreeNode struct {
	UserNode
	Children []*TreeNode `json:"children"`
}

// BuildHierarchy arranges users into reporting trees. The manager -> reports
// index is built once, so the whole build is linear in the number of users.
// Users without a manager, managed by themselves, or whose manager is not in
// the input become roots. Members of a manager cycle that no root reaches are
// promoted to roots in input order, each node appearing exactly once.
func BuildHierarchy(users []UserNode) []*TreeNode {
	index := make(map[string]int, len(users))
	for i, u := range users {
		if _, dup := index[u.ID]; !dup {
			index[u.ID] = i
		}
	}

	children := make([][]int, len(users))
	isRoot := make([]bool, len(users))
	for i, u := range users {
		parent, ok := index[u.ManagerID]
		if u.ManagerID == "" || !ok || parent == i || index[u.ID] != i {
			isRoot[i] = true
			continue
		}
		children[parent] = append(children[parent], i)
	}

	visited := make([]bool, len(users))
	var build func(i int) *TreeNode
	build = func(i int) *TreeNode {
		visited[i] = true
		node := &TreeNode{UserNode: users[i], Children: []*TreeNode{}}
		for _, c := range children[i] {
			if !visited[c] {
				node.Children = append(node.Children, build(c))
			}
		}
		return node
	}

	roots := make([]*TreeNode, 0)
	for i := range users {
		if isRoot[i] && !visited[i] {
			roots = append(roots, build(i))
		}
	}
	for i := range users {
		if !visited[i] {
			roots = append(roots, build(i))
		}
	}
	return roots
}
