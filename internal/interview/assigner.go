package interview

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"
)

type Assigner struct {
	parameters   *Parameters
	applicants   []*domain.Applicant // 注意这个不是所有的申请人，而应该是勾选了空闲时间段的申请人
	slots        map[string]*domain.TimeSlot
	candidateMap map[int64][]string // {applicantID: [slotID1, slotID2, ...]}
}

// New 创建一个分配器
// occupied 是每个时间段已经被手动分配占用的人数
// 分配器内部只使用扣除已占用人数之后的剩余容量，保证自动分配不会让时间段超员
func New(parameters *Parameters, applicants []*domain.Applicant, slots []*domain.TimeSlot, occupied map[string]int32) (*Assigner, error) {
	a := &Assigner{
		parameters:   parameters,
		applicants:   make([]*domain.Applicant, 0),
		slots:        make(map[string]*domain.TimeSlot),
		candidateMap: make(map[int64][]string),
	}

	for _, slot := range slots {
		if !slot.IsActive {
			continue
		}

		remaining := slot.MaxCapacity - occupied[slot.ID]
		if remaining <= 0 {
			// 已经被分配满的时间段不再参与自动分配
			continue
		}

		// 这里需要复制一份，避免修改调用方传入的时间段
		copied := *slot
		copied.MaxCapacity = remaining
		a.slots[slot.ID] = &copied
	}

	if len(a.slots) == 0 {
		return nil, fmt.Errorf("没有可用的面试时间段")
	}

	for _, applicant := range applicants {
		// 申请人勾选的时间段有可能在勾选之后被停用了，所以这里需要过滤
		candidates := make([]string, 0)
		for _, slotID := range applicant.SelectedSlots {
			if _, exists := a.slots[slotID]; exists {
				candidates = append(candidates, slotID)
			}
		}

		if len(candidates) == 0 {
			// 一个可用时间段都没有勾选的申请人无法参与自动分配
			continue
		}

		a.applicants = append(a.applicants, applicant)
		a.candidateMap[applicant.ID] = candidates
	}

	if len(a.applicants) == 0 {
		return nil, fmt.Errorf("没有可以参与自动分配的申请人")
	}

	return a, nil
}

// Assign 运行遗传算法，返回每个申请人被分配到的面试时间段
// 返回的 map 中不包含未被分配到时间段的申请人
func (a *Assigner) Assign() (map[int64]string, error) {
	// 生成初始种群
	pop := make([]*Chromosome, a.parameters.PopulationSize)
	for i := 0; i < int(a.parameters.PopulationSize); i++ {
		pop[i] = a.randomInitChromosome()
		a.calcFitness(pop[i])
	}

	// 迭代
	bestChromosomeEver := &Chromosome{
		genes:   nil,
		fitness: -math.MaxFloat64,
	}

	for gen := 0; gen < int(a.parameters.MaxGenerations); gen++ {
		// 找到本代最佳样本
		genBestFit := pop[0].fitness
		genBestIndex := 0

		for i := 1; i < int(a.parameters.PopulationSize); i++ {
			if pop[i].fitness > genBestFit {
				genBestFit = pop[i].fitness
				genBestIndex = i
			}
		}

		if genBestFit > bestChromosomeEver.fitness {
			bestChromosomeEver.fitness = genBestFit
			// 这里需要使用深拷贝，防止后续繁殖的过程中导致指向的基因被修改
			bestChromosomeEver.genes = make([]*Gene, len(pop[genBestIndex].genes))
			for i := 0; i < len(pop[genBestIndex].genes); i++ {
				bestChromosomeEver.genes[i] = &Gene{
					applicantID: pop[genBestIndex].genes[i].applicantID,
					slotID:      pop[genBestIndex].genes[i].slotID,
				}
			}
		}

		// 繁殖
		newPop := make([]*Chromosome, 0, a.parameters.PopulationSize)

		// 保留精英
		sort.Slice(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})
		newPop = append(newPop, pop[:int(a.parameters.EliteCount)]...)

		// 在剩余的染色体中进行交叉和变异
		for len(newPop) < int(a.parameters.PopulationSize) {
			// 选择两个父本
			p1 := a.selectByRoulette(pop)
			p2 := a.selectByRoulette(pop)

			if rand.Float64() < a.parameters.CrossoverRate {
				a.singlePointCrossover(p1, p2)
			}

			a.mutate(p1)
			a.mutate(p2)

			newPop = append(newPop, p1)

			if len(newPop) < int(a.parameters.PopulationSize) {
				newPop = append(newPop, p2)
			}
		}

		for i := 0; i < int(a.parameters.PopulationSize); i++ {
			pop[i] = newPop[i]
			a.calcFitness(pop[i])
		}
	}

	// 当勾选某个时间段的人数超过剩余容量时，适应度只能惩罚超员而无法完全避免
	// 所以这里要把超出剩余容量的分配取消掉，这些申请人留待手动处理
	loadCnt := make(map[string]int32)
	for _, gene := range bestChromosomeEver.genes {
		if gene.slotID == "" {
			continue
		}
		if loadCnt[gene.slotID] >= a.slots[gene.slotID].MaxCapacity {
			gene.slotID = ""
			continue
		}
		loadCnt[gene.slotID]++
	}

	// 返回结果
	result := make(map[int64]string)
	for _, gene := range bestChromosomeEver.genes {
		if gene.slotID == "" {
			continue
		}
		result[gene.applicantID] = gene.slotID
	}

	// 还需要检查一下结果是否满足约束条件（调用 utils 包中的方法就可以了）
	slots := make([]*domain.TimeSlot, 0, len(a.slots))
	for _, slot := range a.slots {
		slots = append(slots, slot)
	}

	if err := utils.ValidateAssignmentWithSelections(result, a.applicants); err != nil {
		return nil, err
	}
	if err := utils.ValidateAssignmentCapacity(result, slots); err != nil {
		return nil, err
	}

	return result, nil
}
