package screening

// skillVariations maps canonical lower-case skill names to alternative
// tokens commonly found in resumes: abbreviations, file extensions, and
// frameworks that imply the skill. This is a hand-written table, not an
// attempt at a taxonomy; a resume containing any variant counts as a match
// for the canonical skill.
var skillVariations = map[string][]string{
	"javascript":       {"js", "node.js", "nodejs", "es6", "ecmascript"},
	"typescript":       {"ts"},
	"python":           {"py", "django", "flask", "fastapi"},
	"java":             {"spring", "spring boot", "jvm"},
	"golang":           {"go "},
	"react":            {"reactjs", "react.js", "react native"},
	"angular":          {"angularjs", "angular.js"},
	"vue":              {"vuejs", "vue.js", "nuxt"},
	"node.js":          {"nodejs", "node js", "express"},
	"aws":              {"amazon web services", "ec2", "s3", "lambda"},
	"gcp":              {"google cloud", "google cloud platform"},
	"azure":            {"microsoft azure"},
	"docker":           {"containers", "containerization", "docker-compose"},
	"kubernetes":       {"k8s", "kubectl", "helm"},
	"sql":              {"mysql", "postgresql", "postgres", "sqlite", "mssql"},
	"nosql":            {"mongodb", "dynamodb", "cassandra", "redis"},
	"git":              {"github", "gitlab", "bitbucket", "version control"},
	"ci/cd":            {"jenkins", "github actions", "gitlab ci", "continuous integration"},
	"machine learning": {"ml", "ai", "artificial intelligence", "deep learning", "scikit-learn", "tensorflow", "pytorch"},
	"data analysis":    {"pandas", "numpy", "data analytics", "tableau", "power bi"},
	"rest":             {"rest api", "restful", "http api"},
	"linux":            {"unix", "bash", "shell scripting"},
}
