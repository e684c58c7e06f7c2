package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/wizard"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleInterviewer,
	domain.RoleInterviewer,
	domain.RoleInterviewer,
	domain.RoleRecruitLead,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomReviewer(password string, emailDomainName string) (*domain.Reviewer, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	reviewer := &domain.Reviewer{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return reviewer, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

var commonMajors = []string{
	"计算机科学与技术", "软件工程", "信息与计算科学", "电子信息科学与技术",
	"数学与应用数学", "物理学", "自动化", "通信工程",
}

var answerWords = []string{
	"network", "maintenance", "volunteer", "service", "campus", "experience",
	"linux", "team", "learning", "responsibility", "troubleshooting", "interest",
}

// 生成不超过字数上限的随机回答
func generateRandomAnswer(maxWords int32) string {
	n := rand.Intn(int(maxWords)) + 1
	words := make([]string, n)
	for i := range words {
		words[i] = answerWords[rand.Intn(len(answerWords))]
	}
	return strings.Join(words, " ")
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomSubset(arr []string) []string {
	arrCopy := append([]string{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

func GenerateRandomApplicant(slots []*domain.TimeSlot, questions []domain.FRQQuestion) *domain.Applicant {
	fullName := GenerateRandomChineseName()
	pinyinArray := pinyin.LazyConvert(fullName, nil)

	// 姓放在 lastName 中，名放在 firstName 中
	lastName := pinyinArray[0]
	firstName := strings.Join(pinyinArray[1:], "")

	email := strings.ToLower(firstName + "." + lastName + GenerateRandomID(0, 3) + "@example.edu")
	year := wizard.GraduationYears[rand.Intn(len(wizard.GraduationYears))]
	graduationYear, _ := strconv.Atoi(year)

	frqResponses := make([]domain.FRQResponse, len(questions))
	for i, question := range questions {
		frqResponses[i] = domain.FRQResponse{
			QuestionID:   question.ID,
			QuestionText: question.Question,
			Answer:       generateRandomAnswer(question.MaxWords),
		}
	}

	slotIDs := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot.IsActive {
			slotIDs = append(slotIDs, slot.ID)
		}
	}

	now := time.Now()

	return &domain.Applicant{
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Phone:          "13" + GenerateRandomID(0, 9),
		Major:          commonMajors[rand.Intn(len(commonMajors))],
		GraduationYear: int32(graduationYear),
		ResumeURL:      "https://res.cloudinary.com/demo/raw/upload/resumes/" + GenerateRandomID(6, 6),
		FRQResponses:   frqResponses,
		SelectedSlots:  GenerateRandomSubset(slotIDs),
		Status:         domain.StatusApplied,
		Notes:          []domain.ApplicantNote{},
		AssignedSlotID: nil,
		AppliedAt:      now,
		LastUpdatedAt:  now,
	}
}
