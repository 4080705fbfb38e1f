package registry

import "testing"

// TestRegistry 内置目录加载与查询
func TestRegistry(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	t.Run("目录非空且顺序稳定", func(t *testing.T) {
		all := reg.All()
		if len(all) == 0 {
			t.Fatal("empty catalogue")
		}
		if all[0].ID != "product" {
			t.Errorf("first agent = %s, want product", all[0].ID)
		}
	})

	t.Run("按 ID 查询", func(t *testing.T) {
		a, ok := reg.Get("tech")
		if !ok {
			t.Fatal("tech not found")
		}
		if a.Name == "" || a.Persona == "" {
			t.Errorf("agent fields incomplete: %+v", a)
		}
	})

	t.Run("显示名查不到时回退为 ID", func(t *testing.T) {
		if got := reg.NameOf("ghost"); got != "ghost" {
			t.Errorf("NameOf(ghost) = %q", got)
		}
	})

	t.Run("解析列表跳过未知 ID 并保序", func(t *testing.T) {
		agents := reg.Resolve([]string{"tech", "ghost", "product"})
		if len(agents) != 2 {
			t.Fatalf("resolved %d agents, want 2", len(agents))
		}
		if agents[0].ID != "tech" || agents[1].ID != "product" {
			t.Errorf("order = [%s %s]", agents[0].ID, agents[1].ID)
		}
	})
}
