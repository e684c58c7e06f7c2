package interview

// Gene: 表示对某个申请人的面试时间段分配决策
type Gene struct {
	applicantID int64
	slotID      string // 为空字符串时表示这个申请人没有被分配到任何时间段
}

// Chromosome: 一份完整的分配方案
type Chromosome struct {
	genes   []*Gene
	fitness float64
}

// 遗传算法参数
type Parameters struct {
	PopulationSize    int32   // 种群大小
	MaxGenerations    int32   // 最大迭代次数
	CrossoverRate     float64 // 交叉概率
	MutationRate      float64 // 变异概率
	EliteCount        int32   // 精英数量
	LoadBalanceWeight float64 // 各时间段人数均衡程度的权重
}
