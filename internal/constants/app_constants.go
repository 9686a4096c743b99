package constants

const (
	// ExtractorVersion 当前启发式抽取器版本，随画像元数据一起落库，
	// 规则调整后用于区分新旧画像
	ExtractorVersion = "heuristic-v1"
)
