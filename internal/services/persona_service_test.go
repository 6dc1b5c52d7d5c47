// internal/services/persona_service_test.go
package services

import (
	"strings"
	"testing"

	apperrors "github.com/Corphon/PersonaForge/internal/errors"
	"github.com/Corphon/PersonaForge/internal/rng"
)

const sampleText = "I love coding and building innovative software solutions every day! Technology excites me so much!!"

func newTestPersonaService(t *testing.T) *PersonaService {
	t.Helper()
	svc := NewPersonaService(newTestStorage(t), 50, false)
	svc.newRand = func() rng.Rand { return rng.NewSeeded(42) }
	return svc
}

func TestGeneratePersona(t *testing.T) {
	svc := newTestPersonaService(t)

	profile, err := svc.Generate("user-1", sampleText)
	if err != nil {
		t.Fatalf("生成人格失败: %v", err)
	}

	if profile.ID == "" {
		t.Error("人格ID不应为空")
	}
	if profile.OwnerID != "user-1" {
		t.Errorf("所有者应为user-1，实际: %s", profile.OwnerID)
	}
	if profile.Name == "" || profile.Avatar == "" || profile.Tagline == "" {
		t.Errorf("人格基础字段不应为空: %+v", profile)
	}

	// 生成后应可按ID读回
	loaded, err := svc.GetPersona(profile.ID)
	if err != nil {
		t.Fatalf("读取人格失败: %v", err)
	}
	if loaded.Name != profile.Name {
		t.Errorf("读回的人格名称不匹配: %s != %s", loaded.Name, profile.Name)
	}
}

func TestGenerateRejectsShortText(t *testing.T) {
	svc := newTestPersonaService(t)

	_, err := svc.Generate("user-1", "too short")
	if !apperrors.IsValidationError(err) {
		t.Errorf("期望校验错误，实际: %v", err)
	}

	// 只有空白的长文本同样被拒绝
	_, err = svc.Generate("user-1", strings.Repeat(" ", 100))
	if !apperrors.IsValidationError(err) {
		t.Errorf("纯空白文本应返回校验错误，实际: %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	svc := newTestPersonaService(t)

	if _, err := svc.Generate("user-1", sampleText); err != nil {
		t.Fatalf("生成人格失败: %v", err)
	}
	if _, err := svc.Generate("user-1", sampleText); err != nil {
		t.Fatalf("生成人格失败: %v", err)
	}
	if _, err := svc.Generate("user-2", sampleText); err != nil {
		t.Fatalf("生成人格失败: %v", err)
	}

	owned, err := svc.ListByOwner("user-1")
	if err != nil {
		t.Fatalf("列出人格失败: %v", err)
	}
	if len(owned) != 2 {
		t.Errorf("user-1应有2个人格，实际%d个", len(owned))
	}
	for _, p := range owned {
		if p.OwnerID != "user-1" {
			t.Errorf("列表中混入了其他用户的人格: %s", p.OwnerID)
		}
	}
}

func TestUpdatePersonaOwnership(t *testing.T) {
	svc := newTestPersonaService(t)

	profile, err := svc.Generate("user-1", sampleText)
	if err != nil {
		t.Fatalf("生成人格失败: %v", err)
	}

	// 非所有者且非管理员被拒绝
	if _, err := svc.UpdatePersona(profile.ID, "user-2", false, "Hacked", ""); !apperrors.IsForbiddenError(err) {
		t.Errorf("期望禁止访问错误，实际: %v", err)
	}

	// 所有者可以改名
	updated, err := svc.UpdatePersona(profile.ID, "user-1", false, "NewName", "new tagline")
	if err != nil {
		t.Fatalf("更新人格失败: %v", err)
	}
	if updated.Name != "NewName" || updated.Tagline != "new tagline" {
		t.Errorf("更新未生效: %s / %s", updated.Name, updated.Tagline)
	}

	// 空字段保持原值
	kept, err := svc.UpdatePersona(profile.ID, "user-1", false, "", "")
	if err != nil {
		t.Fatalf("更新人格失败: %v", err)
	}
	if kept.Name != "NewName" {
		t.Errorf("空名称不应覆盖原值: %s", kept.Name)
	}

	// 管理员可以修改任何人格
	if _, err := svc.UpdatePersona(profile.ID, "admin-1", true, "AdminName", ""); err != nil {
		t.Errorf("管理员更新失败: %v", err)
	}
}

func TestDeletePersona(t *testing.T) {
	svc := newTestPersonaService(t)

	profile, err := svc.Generate("user-1", sampleText)
	if err != nil {
		t.Fatalf("生成人格失败: %v", err)
	}

	if err := svc.DeletePersona(profile.ID, "user-2", false); !apperrors.IsForbiddenError(err) {
		t.Errorf("期望禁止访问错误，实际: %v", err)
	}

	if err := svc.DeletePersona(profile.ID, "user-1", false); err != nil {
		t.Fatalf("删除人格失败: %v", err)
	}

	if _, err := svc.GetPersona(profile.ID); !apperrors.IsNotFoundError(err) {
		t.Errorf("删除后应返回未找到，实际: %v", err)
	}
}

func TestTopicCounts(t *testing.T) {
	svc := newTestPersonaService(t)

	if _, err := svc.Generate("user-1", sampleText); err != nil {
		t.Fatalf("生成人格失败: %v", err)
	}

	counts, err := svc.TopicCounts()
	if err != nil {
		t.Fatalf("统计话题失败: %v", err)
	}
	if counts["technology"] == 0 {
		t.Errorf("科技文本应计入technology话题: %v", counts)
	}
}
