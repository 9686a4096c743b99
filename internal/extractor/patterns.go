package extractor

import (
	"regexp"
	"strings"
)

// 本文件集中存放各字段抽取器使用的静态规则表。
// 所有规则表都是有序的：先注册的规则优先命中，顺序本身就是消歧策略的一部分，
// 调整顺序前务必先看对应抽取器的测试。

// skillRule 技能词表中的一项，Patterns 中任意一个命中即认为该技能出现
type skillRule struct {
	Name     string
	Patterns []*regexp.Regexp
}

// skillRules 技能检查顺序表：复合/较长的名称排在其子串技能之前，
// 例如 Node.js 先于 Java，Machine Learning 先于普通单词，
// 避免短技能的模式在长技能的匹配范围内误触发
var skillRules = []skillRule{
	{"Machine Learning", compileAll(`(?i)\bMachine Learning\b`, `(?i)\bML\b`)},
	{"Deep Learning", compileAll(`(?i)\bDeep Learning\b`, `(?i)\bDL\b`)},
	{"Node.js", compileAll(`(?i)\bNode\.js\b`, `(?i)\bNodeJS\b`, `(?i)\bnodejs\b`)},
	{"Angular", compileAll(`(?i)\bAngular\b`, `(?i)\bAngularJS\b`)},
	{"TypeScript", compileAll(`(?i)\bTypeScript\b`, `(?i)\bTS\b`)},
	{"PostgreSQL", compileAll(`(?i)\bPostgreSQL\b`, `(?i)\bPostgres\b`)},
	{"MySQL", compileAll(`(?i)\bMySQL\b`)},
	{"JavaScript", compileAll(`(?i)\bJavaScript\b`, `(?i)\bJS\b`)},
	{"Kubernetes", compileAll(`(?i)\bKubernetes\b`, `(?i)\bK8s\b`)},
	{"TensorFlow", compileAll(`(?i)\bTensorFlow\b`)},
	{"Amazon Web Services", compileAll(`(?i)\bAmazon\s+Web\s+Services\b`)},
	{"C++", compileAll(`(?i)\bC\+\+`, `(?i)\bCPP\b`)},
	{"C#", compileAll(`(?i)\bC#`, `(?i)\bCSharp\b`)},
	{".NET", compileAll(`(?i)\.NET\b`, `(?i)\bDotNet\b`)},
	{"Python", compileAll(`(?i)\bPython\b`, `(?i)\bPythonic\b`)},
	{"React", compileAll(`(?i)\bReact\b`, `(?i)\bReact\.js\b`)},
	{"Vue", compileAll(`(?i)\bVue\.js\b`, `(?i)\bVue\b`)},
	{"Java", compileAll(`(?i)\bJava\b`)},
	{"SQL", compileAll(`(?i)\bSQL\b`)},
	{"MongoDB", compileAll(`(?i)\bMongoDB\b`, `(?i)\bMongo\b`)},
	{"AWS", compileAll(`(?i)\bAWS\b`)},
	{"Docker", compileAll(`(?i)\bDocker\b`)},
	{"Git", compileAll(`(?i)\bGit\b`, `(?i)\bGitHub\b`, `(?i)\bGitLab\b`)},
	{"Linux", compileAll(`(?i)\bLinux\b`)},
	{"Django", compileAll(`(?i)\bDjango\b`)},
	{"Flask", compileAll(`(?i)\bFlask\b`)},
	{"Spring", compileAll(`(?i)\bSpring\b`, `(?i)\bSpring Boot\b`, `(?i)\bSpring Framework\b`)},
	{"PyTorch", compileAll(`(?i)\bPyTorch\b`)},
	{"PHP", compileAll(`(?i)\bPHP\b`)},
	{"Ruby", compileAll(`(?i)\bRuby\b`, `(?i)\bRuby on Rails\b`)},
	{"Go", compileAll(`(?i)\bGo\b`, `(?i)\bGolang\b`)},
	{"Rust", compileAll(`(?i)\bRust\b`)},
	{"Swift", compileAll(`(?i)\bSwift\b`)},
	{"Kotlin", compileAll(`(?i)\bKotlin\b`)},
	{"HTML", compileAll(`(?i)\bHTML\b`, `(?i)\bHTML5\b`)},
	{"CSS", compileAll(`(?i)\bCSS\b`, `(?i)\bCSS3\b`)},
}

// degreePatterns 单个学历等级的两档模式：
// Clear 是无歧义的完整表述（如 "Master's degree"、"MBA"），用±150字符的宽窗口校验；
// Strict 是容易误判的缩写（如 "MS"、"BS"），必须在±50字符内出现教育语境词才接受
type degreePatterns struct {
	Level  string
	Clear  []*regexp.Regexp
	Strict []*regexp.Regexp
}

// degreeRules 按 PhD → Master's → Bachelor's → Associate's → Diploma 的
// 固定优先级排列，命中最高等级后停止检测
var degreeRules = []degreePatterns{
	{
		Level: "PhD",
		Clear: compileAll(
			`(?i)\bph\.?\s*d\.?\b`,
			`(?i)\bdoctorate\b`,
			`(?i)\bdoctoral\s+degree\b`,
			`(?i)\bdoctor\s+of\s+philosophy\b`,
		),
	},
	{
		Level: "Master's",
		Clear: compileAll(`(?i)\bmaster'?s?\s+degree\b`, `(?i)\bmba\b`),
		Strict: compileAll(
			`(?i)\bm\.?\s*s\.?\b`,
			`(?i)\bm\.?\s*sc\.?\b`,
			`(?i)\bm\.?\s*eng\.?\b`,
			`(?i)\bma\b`,
			`(?i)\bmsc\b`,
			`(?i)\bmeng\b`,
		),
	},
	{
		Level: "Bachelor's",
		Clear: compileAll(`(?i)\bbachelor'?s?\s+degree\b`),
		Strict: compileAll(
			`(?i)\bb\.?\s*s\.?\b`,
			`(?i)\bb\.?\s*a\.?\b`,
			`(?i)\bb\.?\s*sc\.?\b`,
			`(?i)\bb\.?\s*eng\.?\b`,
			`(?i)\bbsc\b`,
			`(?i)\bbeng\b`,
			`(?i)\bbtech\b`,
		),
	},
	{
		Level:  "Associate's",
		Clear:  compileAll(`(?i)\bassociate'?s?\s+degree\b`),
		Strict: compileAll(`(?i)\ba\.?\s*a\.?\b`, `(?i)\ba\.?\s*s\.?\b`, `(?i)\baas\b`),
	},
	{
		Level: "Diploma",
		Clear: compileAll(
			`(?i)\bdiploma\s+in\b`,
			`(?i)\bdiploma\s+from\b`,
			`(?i)\beducational\s+certificate\b`,
			`(?i)\bdegree\s+certificate\b`,
		),
	},
}

// certRule 证书目录中的一项
// KnownAbbr 为真表示该模式属于公认的证书缩写（PMP、CISSP等），
// 不需要附近出现证书语境词也可接受
type certRule struct {
	Name     string
	Patterns []certPattern
}

type certPattern struct {
	Re        *regexp.Regexp
	KnownAbbr bool
}

// knownCertAbbrs 公认无歧义的证书缩写片段，模式源串包含其一即视为已知缩写
var knownCertAbbrs = []string{
	"PMP", "CISSP", "CEH", "CISM", "ITIL", "CCNA", "CCNP",
	"AZ-", "AWS", "CSM", "CKA", "CKAD", "IBM", "GCP", "GA", "Google",
}

// certRules 证书目录：规范名称 → 一组匹配模式（厂商代号、全称、常见缩写）
var certRules = buildCertRules([]struct {
	Name     string
	Patterns []string
}{
	{"AWS Certified", []string{
		`\bAWS\s+Certified\b`, `\bAmazon\s+Web\s+Services\s+Certified\b`,
		`\bAWS\s+Solutions\s+Architect\b`, `\bAWS\s+Developer\b`, `\bAWS\s+SysOps\b`,
		`\bAWS\s+SA\b`, `\bAWS\s+CLF\b`, `\bAWS\s+SAA\b`, `\bAWS\s+DVA\b`, `\bAWS\s+SOA\b`,
	}},
	{"Azure Certified", []string{
		`\bAzure\s+Certified\b`, `\bMicrosoft\s+Azure\b`, `\bAzure\s+AZ-\d+\b`,
		`\bAZ-900\b`, `\bAZ-104\b`, `\bAZ-305\b`, `\bAZ-204\b`, `\bAZ-400\b`,
		`\bAzure\s+Fundamentals\b`, `\bAzure\s+Administrator\b`, `\bAzure\s+Architect\b`,
		`\bAzure\s+Developer\b`, `\bAzure\s+DevOps\b`,
	}},
	{"Google Cloud Certified", []string{
		`\bGCP\s+Certified\b`, `\bGoogle\s+Cloud\s+Certified\b`,
		`\bGCP\s+Architect\b`, `\bGCP\s+Developer\b`, `\bGCP\s+Data\s+Engineer\b`,
		`\bGoogle\s+Cloud\s+Professional\b`, `\bGoogle\s+Cloud\s+Associate\b`,
		`\bGCP\s+Professional\b`, `\bProfessional\s+Cloud\s+Architect\b`,
		`\bProfessional\s+Cloud\s+Developer\b`, `\bProfessional\s+Data\s+Engineer\b`,
	}},
	{"Google Analytics", []string{`\bGoogle\s+Analytics\s+Certified\b`, `\bGA\s+Certified\b`, `\bGAIQ\b`}},
	{"Google Ads", []string{`\bGoogle\s+Ads\s+Certified\b`, `\bGoogle\s+AdWords\s+Certified\b`}},
	{"Google IT Support", []string{`\bGoogle\s+IT\s+Support\b`, `\bGoogle\s+IT\s+Certificate\b`}},
	{"Google Data Analytics", []string{`\bGoogle\s+Data\s+Analytics\b`}},
	{"Google UX Design", []string{`\bGoogle\s+UX\s+Design\b`}},
	{"Google Project Management", []string{`\bGoogle\s+Project\s+Management\b`}},
	{"Google Cybersecurity", []string{`\bGoogle\s+Cybersecurity\b`}},
	{"PMP", []string{`\bPMP\b`, `\bProject\s+Management\s+Professional\b`}},
	{"PRINCE2", []string{`\bPRINCE2\b`}},
	{"CAPM", []string{`\bCAPM\b`}},
	{"Scrum Master", []string{`\bScrum\s+Master\b`, `\bCSM\b`, `\bCertified\s+Scrum\s+Master\b`}},
	{"Scrum Product Owner", []string{`\bCSPO\b`, `\bCertified\s+Scrum\s+Product\s+Owner\b`}},
	{"SAFe", []string{`\bSAFe\b`, `\bScaled\s+Agile\b`}},
	{"Agile", []string{`\bAgile\s+Certified\b`, `\bPMI-ACP\b`}},
	{"ITIL", []string{`\bITIL\b`, `\bITIL\s+Foundation\b`, `\bITIL\s+v4\b`}},
	{"CISSP", []string{`\bCISSP\b`, `\bCertified\s+Information\s+Systems\s+Security\s+Professional\b`}},
	{"Security+", []string{`\bSecurity\+`, `\bSecurity Plus\b`, `\bCompTIA\s+Security\+`}},
	{"CEH", []string{`\bCEH\b`, `\bCertified\s+Ethical\s+Hacker\b`}},
	{"CISM", []string{`\bCISM\b`, `\bCertified\s+Information\s+Security\s+Manager\b`}},
	{"CISA", []string{`\bCISA\b`, `\bCertified\s+Information\s+Systems\s+Auditor\b`}},
	{"Oracle Certified", []string{`\bOracle\s+Certified\b`, `\bOCA\b`, `\bOCP\b`, `\bOCE\b`}},
	{"Microsoft Certified", []string{
		`\bMicrosoft\s+Certified\b`, `\bMCSA\b`, `\bMCSE\b`, `\bMCSD\b`,
		`\bMicrosoft\s+Azure\b`, `\bMS-\d+\b`,
	}},
	{"Cisco Certified", []string{
		`\bCisco\s+Certified\b`, `\bCCNA\b`, `\bCCNP\b`, `\bCCIE\b`,
		`\bCisco\s+CCNA\b`, `\bCisco\s+CCNP\b`,
	}},
	{"Kubernetes Certified", []string{`\bCKA\b`, `\bCKAD\b`, `\bKubernetes\s+Certified\b`}},
	{"Docker Certified", []string{`\bDocker\s+Certified\b`}},
	{"Terraform Certified", []string{`\bTerraform\s+Certified\b`, `\bHashicorp\s+Terraform\b`}},
	{"Salesforce Certified", []string{
		`\bSalesforce\s+Certified\b`, `\bSalesforce\s+Admin\b`,
		`\bSalesforce\s+Developer\b`, `\bSFDC\b`,
	}},
	{"Red Hat Certified", []string{`\bRHCE\b`, `\bRHCSA\b`, `\bRed\s+Hat\b`}},
	{"CompTIA A+", []string{`\bCompTIA\s+A\+`, `\bA\+`}},
	{"CompTIA Network+", []string{`\bCompTIA\s+Network\+`, `\bNetwork\+`}},
	{"CompTIA Security+", []string{`\bCompTIA\s+Security\+`}},
	{"IBM Certified", []string{
		`\bIBM\s+Certified\b`, `\bIBM\s+Professional\b`,
		`\bIBM\s+Specialist\b`, `\bIBM\s+Associate\b`,
	}},
	{"IBM Cloud", []string{
		`\bIBM\s+Cloud\s+Certified\b`, `\bIBM\s+Cloud\s+Professional\b`,
		`\bIBM\s+Cloud\s+Solutions\s+Architect\b`,
	}},
	{"IBM Data Science", []string{
		`\bIBM\s+Data\s+Science\s+Certified\b`, `\bIBM\s+Data\s+Science\s+Professional\b`,
		`\bIBM\s+Data\s+Analyst\b`, `\bIBM\s+Data\s+Engineer\b`,
	}},
	{"IBM AI Engineering", []string{
		`\bIBM\s+AI\s+Engineering\b`, `\bIBM\s+Machine\s+Learning\b`,
		`\bIBM\s+Artificial\s+Intelligence\b`,
	}},
	{"IBM Watson", []string{`\bIBM\s+Watson\s+Certified\b`, `\bWatson\s+Certified\b`}},
	{"IBM Power Systems", []string{`\bIBM\s+Power\s+Systems\b`}},
	{"IBM DB2", []string{`\bIBM\s+DB2\b`, `\bDB2\s+Certified\b`}},
	{"IBM Cognos", []string{`\bIBM\s+Cognos\b`, `\bCognos\s+Certified\b`}},
	{"IBM Rational", []string{`\bIBM\s+Rational\b`}},
	{"Tableau Certified", []string{`\bTableau\s+Certified\b`}},
	{"Snowflake Certified", []string{`\bSnowflake\s+Certified\b`}},
	{"Coursera", []string{`\bCoursera\b`, `\bCoursera\s+Certificate\b`, `\bCoursera\s+Specialization\b`}},
	{"Udemy", []string{`\bUdemy\b`, `\bUdemy\s+Certificate\b`}},
	{"edX", []string{`\bedX\b`, `\bedX\s+Certificate\b`}},
	{"LinkedIn Learning", []string{`\bLinkedIn\s+Learning\b`, `\bLynda\b`}},
	{"Pluralsight", []string{`\bPluralsight\b`}},
	{"DataCamp", []string{`\bDataCamp\b`}},
	{"Udacity", []string{`\bUdacity\b`, `\bUdacity\s+Nanodegree\b`}},
	{"HackerRank", []string{`\bHackerRank\b`, `\bHackerRank\s+Certificate\b`}},
	{"Postman", []string{`\bPostman\s+API\b`, `\bPostman\s+Student\s+Expert\b`, `\bAPI\s+Fundamentals\s+Student\s+Expert\b`}},
	{"MongoDB University", []string{`\bMongoDB\s+University\b`, `\bMongoDB\s+Certified\b`}},
	{"Meta", []string{`\bMeta\s+Certified\b`, `\bFacebook\s+Certified\b`, `\bMeta\s+Front-End\b`, `\bMeta\s+Back-End\b`}},
	{"freeCodeCamp", []string{`\bfreeCodeCamp\b`, `\bFree\s+Code\s+Camp\b`}},
	{"Python Institute", []string{`\bPCEP\b`, `\bPCAP\b`, `\bPCPP\b`, `\bPython\s+Institute\b`}},
	{"Java Certified", []string{`\bOCJP\b`, `\bOCPJP\b`, `\bJava\s+SE\s+Programmer\b`}},
	{"TOGAF", []string{`\bTOGAF\b`}},
	{"COBIT", []string{`\bCOBIT\b`}},
	{"Six Sigma", []string{`\bSix\s+Sigma\b`, `\bLean\s+Six\s+Sigma\b`, `\bGreen\s+Belt\b`, `\bBlack\s+Belt\b`}},
})

// titleRules 职位名称的三档模式：带资历前缀的领域+角色、领域+角色、裸角色名词
// 越靠前的越精确，命中结果也更可信
var titleRules = compileAll(
	`(?i)(Senior|Junior|Lead|Principal|Staff|Associate)?\s*(Software|Data|ML|AI|DevOps|Cloud|Full.?Stack|Front.?end|Back.?end|Mobile|QA|Test|Security|Network|System|Database|Business|Product|Project|Marketing|Sales|HR|Finance|Operations|Research|Design|UX|UI)\s+(Engineer|Developer|Architect|Analyst|Scientist|Manager|Specialist|Consultant|Designer|Director|Lead|Coordinator|Associate|Executive|Officer|Administrator|Technician)`,
	`(?i)(Software|Data|ML|AI|DevOps|Cloud|Full.?Stack|Front.?end|Back.?end|Mobile|QA|Test|Security|Network|System|Database|Business|Product|Project|Marketing|Sales|HR|Finance|Operations|Research|Design|UX|UI)\s+(Engineer|Developer|Architect|Analyst|Scientist|Manager|Specialist|Consultant|Designer|Director|Lead|Coordinator|Associate|Executive|Officer|Administrator|Technician)`,
	`(?i)(Programmer|Developer|Engineer|Analyst|Manager|Director|Consultant|Specialist|Designer|Architect|Scientist)`,
)

// titleExcludeRules 职位匹配的常见误判，命中即丢弃
var titleExcludeRules = compileAll(
	`(?i)project manager`, `(?i)program manager`, `(?i)product manager`,
	`(?i)\bmanager\b.*\bmanager\b`,
)

// companyRules 公司名称的锚点模式：
// "at <大写短语>"、雇佣动词+介词+短语、短语+公司后缀词、行首短语+分隔符+职位词
var companyRules = compileAll(
	`at\s+([A-Z][a-zA-Z\s&\.\-]+?)(?:\s*\n|\s*-|\s*\||$)`,
	`(?:worked|working|employed)\s+(?:at|for|with)\s+([A-Z][a-zA-Z\s&\.\-]+?)(?:\s*\n|\s*-|\s*\||$)`,
	`([A-Z][a-zA-Z\s&\.\-]+?)\s*(?:Inc|LLC|Corp|Ltd|Company|Technologies|Systems|Solutions|Group|Industries|Pvt|Limited)\b`,
	`(?:^|\n)\s*([A-Z][a-zA-Z\s&\.\-]{3,40}?)\s*[\|\-]\s*(?:Software|Engineer|Developer|Analyst|Manager|Director)`,
)

// companyStopwords 不可能单独构成公司名的常见词
var companyStopwords = map[string]bool{
	"the": true, "and": true, "at": true, "of": true, "in": true, "on": true,
	"with": true, "for": true, "from": true, "to": true,
	"resume": true, "cv": true, "curriculum": true, "vitae": true,
	"experience": true, "education": true, "skills": true, "projects": true,
	"references": true, "contact": true, "email": true, "phone": true,
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

func buildCertRules(raw []struct {
	Name     string
	Patterns []string
}) []certRule {
	rules := make([]certRule, 0, len(raw))
	for _, r := range raw {
		cr := certRule{Name: r.Name}
		for _, p := range r.Patterns {
			cr.Patterns = append(cr.Patterns, certPattern{
				Re:        regexp.MustCompile(`(?i)` + p),
				KnownAbbr: containsAnyLiteral(p, knownCertAbbrs),
			})
		}
		rules = append(rules, cr)
	}
	return rules
}

func containsAnyLiteral(pattern string, literals []string) bool {
	for _, l := range literals {
		if strings.Contains(pattern, l) {
			return true
		}
	}
	return false
}
