package interview

import (
	"math"
	"math/rand"
)

// randomInitChromosome 随机初始化一个染色体
func (a *Assigner) randomInitChromosome() *Chromosome {
	var genes []*Gene

	for _, applicant := range a.applicants {
		slotID := ""

		// 在这个申请人勾选过的时间段中随机选出一个
		candidates := a.candidateMap[applicant.ID]
		if len(candidates) > 0 {
			slotID = candidates[rand.Intn(len(candidates))]
		}

		genes = append(genes, &Gene{
			applicantID: applicant.ID,
			slotID:      slotID,
		})
	}

	return &Chromosome{
		genes: genes,
	}
}

/**
 * 计算染色体的适应度
 * fitness = - unassignedPenalty - overflowPenalty - LoadBalanceWeight * balancePenalty
 * 其中:
 * 		1. unassignedPenalty 为未分配惩罚（用于确保每个申请人都尽可能被分配到面试时间段）
 * 		2. overflowPenalty 为超员惩罚（用于确保每个时间段的面试人数不超过容量上限）
 * 		3. balancePenalty 为均衡性惩罚（即各时间段占用率的方差，用于确保面试人数尽可能均衡）
 * 		4. LoadBalanceWeight 为均衡性权重，用于平衡分配率和均衡性（由输入参数决定）
 */
func (a *Assigner) calcFitness(ch *Chromosome) {
	// 计算每个时间段被分配到的人数
	slotLoadCnt := make(map[string]int32)
	for id := range a.slots {
		slotLoadCnt[id] = 0
	}

	unassignedPenalty := 0.0
	for _, gene := range ch.genes {
		if gene.slotID == "" {
			unassignedPenalty += 1
			continue
		}
		slotLoadCnt[gene.slotID] += 1
	}

	// 计算 overflowPenalty
	// 超员是比未分配更严重的问题，所以给超出的每个名额更大的惩罚
	overflowPenalty := 0.0
	for id, cnt := range slotLoadCnt {
		if cnt > a.slots[id].MaxCapacity {
			overflowPenalty += float64(cnt-a.slots[id].MaxCapacity) * 10
		}
	}

	// 计算 balancePenalty（即各时间段占用率的方差）
	variance := 0.0
	avgLoadRate := 0.0

	loadRates := make([]float64, 0, len(slotLoadCnt))
	for id, cnt := range slotLoadCnt {
		loadRates = append(loadRates, float64(cnt)/float64(a.slots[id].MaxCapacity))
	}

	for _, rate := range loadRates {
		avgLoadRate += rate
	}
	avgLoadRate /= float64(len(loadRates))

	for _, rate := range loadRates {
		variance += math.Pow(rate-avgLoadRate, 2)
	}
	variance /= float64(len(loadRates))

	// 计算 fitness 并赋值给染色体
	fitness := -unassignedPenalty - overflowPenalty - a.parameters.LoadBalanceWeight*variance
	ch.fitness = fitness
}

// 使用轮盘赌来进行选择
func (a *Assigner) selectByRoulette(pop []*Chromosome) *Chromosome {
	sumFit := 0.0
	for _, ch := range pop {
		sumFit += ch.fitness
	}
	pick := rand.Float64() * sumFit
	partial := 0.0

	for _, ch := range pop {
		partial += ch.fitness
		if partial >= pick {
			return ch
		}
	}

	// 理论上不会运行到这个地方
	return pop[len(pop)-1]
}

// 单点交叉
func (a *Assigner) singlePointCrossover(ch1 *Chromosome, ch2 *Chromosome) {
	length1 := len(ch1.genes)
	length2 := len(ch2.genes)

	if length1 != length2 {
		// 按理来说两个染色体的长度应该能保证是相等的
		// 这里只是以防万一
		return
	}

	length := length1

	// 随机选择一个位置
	point := rand.Intn(length)

	// 交换两个染色体在 point 位置之后的基因
	for i := point; i < length; i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// 变异
// 在申请人勾选过的时间段中随机选出一个新的时间段
func (a *Assigner) mutate(ch *Chromosome) {
	for i := range ch.genes {
		// 每个基因都有一定概率发生变异
		if rand.Float64() > a.parameters.MutationRate {
			continue
		}

		var candidates []string = []string{}
		for _, slotID := range a.candidateMap[ch.genes[i].applicantID] {
			if slotID == ch.genes[i].slotID {
				// 如果这个时间段就是当前分配到的时间段，那么就不要把它放入候选中了
				continue
			}
			candidates = append(candidates, slotID)
		}

		if len(candidates) > 0 {
			ch.genes[i].slotID = candidates[rand.Intn(len(candidates))]
		}
	}
}
