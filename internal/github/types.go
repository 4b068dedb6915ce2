package github

// Label represents a repository label
type Label struct {
	Name        string
	Description string
}

// Milestone represents a release milestone, identified by a version-like title
type Milestone struct {
	Number int
	Title  string
}

// Branch represents a repository branch
type Branch struct {
	Name string
}

// Issue represents the issue view of a pull request, which carries the
// milestone field
type Issue struct {
	Number    int
	Milestone *Milestone
}
