package permission

import (
	"sort"
	"sync"

	"github.com/frahmantamala/workorder-management/internal"
)

// Grant is the permission set configured for one registry bucket.
type Grant struct {
	Pages   []string `json:"pages"`
	Buttons []string `json:"buttons"`
}

// Profile is one department's configuration. The Pages/Buttons pair is the
// department-wide default bucket; Roles holds role-specific buckets that take
// precedence on lookup. Built-in profiles cannot be deleted.
type Profile struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Color       string           `json:"color"`
	Pages       []string         `json:"pages"`
	Buttons     []string         `json:"buttons"`
	Roles       map[string]Grant `json:"roles,omitempty"`
	Builtin     bool             `json:"builtin"`
}

// Registry owns the (department, role) → permission set mapping. It is
// read-mostly; mutation happens only through Put/Delete and is serialized by
// the implementation.
type Registry interface {
	// Get resolves the bucket for (department, role). A role with no
	// specific bucket degrades to the department-wide default bucket.
	// ok is false only when the department itself is unknown.
	Get(department, role string) (Grant, bool)
	Profile(department string) (Profile, bool)
	List() []Profile
	Put(p Profile) error
	Delete(department string) error
}

type memoryRegistry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry returns an in-memory registry seeded with the built-in
// department profiles. Persistence of this configuration is owned by an
// external collaborator; the process works from this snapshot.
func NewRegistry() Registry {
	r := &memoryRegistry{profiles: make(map[string]Profile, len(builtinProfiles))}
	for _, p := range builtinProfiles {
		r.profiles[p.Name] = p
	}
	return r
}

func (r *memoryRegistry) Get(department, role string) (Grant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[department]
	if !ok {
		return Grant{}, false
	}
	if role != "" {
		if g, ok := p.Roles[role]; ok {
			return g, true
		}
	}
	return Grant{Pages: p.Pages, Buttons: p.Buttons}, true
}

func (r *memoryRegistry) Profile(department string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[department]
	return p, ok
}

func (r *memoryRegistry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *memoryRegistry) Put(p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// the builtin flag is owned by the registry, not the caller
	if existing, ok := r.profiles[p.Name]; ok {
		p.Builtin = existing.Builtin
	} else {
		p.Builtin = false
	}
	r.profiles[p.Name] = p
	return nil
}

func (r *memoryRegistry) Delete(department string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[department]
	if !ok {
		return internal.ErrDepartmentNotFound
	}
	if p.Builtin {
		return internal.ErrBuiltinDepartment
	}
	delete(r.profiles, department)
	return nil
}

var builtinProfiles = []Profile{
	{
		Name:        "技术部",
		Description: "负责系统技术支持和数据分析",
		Color:       "#2196F3",
		Pages: []string{
			"data_entry", "data_query", "lab_data", "sludge_data", "ao_data", "history_data",
			"reports", "report_form", "report_query", "dynamic_reports",
			"dosing_calculator", "pac_calculator", "pam_calculator", "excess_sludge_calculator", "carbon_calc",
			"file_upload", "dav_screen", "messages",
			PageWorkOrderList, PageWorkOrderCreate, PageWorkOrderDetail, PageWorkOrderEdit,
		},
		Buttons: []string{"create_data", "export_data", "create_report"},
		Builtin: true,
	},
	{
		Name:        "运营部",
		Description: "负责日常运营和数据录入",
		Color:       "#4CAF50",
		Pages: []string{
			"data_entry", "data_query", "lab_data",
			"reports", "report_form", "report_query",
			"dosing_calculator", "pac_calculator", "pam_calculator",
			"messages", "message_query",
			PageWorkOrderList, PageWorkOrderCreate, PageWorkOrderDetail,
		},
		Buttons: []string{"create_data", "create_report"},
		Builtin: true,
	},
	{
		Name:        "管理部",
		Description: "负责系统级配置和用户账户管理",
		Color:       "#FF9800",
		Pages: []string{
			"user_management", "api_management", "oauth2_config", "site_management", "department_permission",
			"data_query", "history_data",
			"reports", "report_query", "dynamic_reports",
			"messages", "message_query",
			PageWorkOrderList, PageWorkOrderCreate, PageWorkOrderDetail, PageWorkOrderEdit,
		},
		Buttons: []string{"system_config", "export_data", "export_report", ButtonWorkOrderAssign, ButtonWorkOrderClose, ButtonWorkOrderDelete},
		Builtin: true,
	},
	{
		Name:        "质检部",
		Description: "负责质量检测和实验室数据管理",
		Color:       "#9C27B0",
		Pages: []string{
			"lab_data", "data_query", "history_data",
			"reports", "report_form", "carbon_calc",
			"file_upload",
			PageWorkOrderList, PageWorkOrderCreate, PageWorkOrderDetail,
		},
		Buttons: []string{"create_data", "create_report"},
		Builtin: true,
	},
	{
		Name:        "财务部",
		Description: "负责财务相关报表和数据查看",
		Color:       "#607D8B",
		Pages: []string{
			"data_query", "reports", "report_query", "dynamic_reports",
			PageWorkOrderList, PageWorkOrderDetail,
		},
		Buttons: []string{"export_report"},
		Builtin: true,
	},
	{
		Name:        "维护部",
		Description: "负责设备维护和相关数据录入",
		Color:       "#795548",
		Pages: []string{
			"data_entry", "data_query", "sludge_data", "ao_data",
			"reports", "dosing_calculator", "excess_sludge_calculator",
			"messages",
			PageWorkOrderList, PageWorkOrderCreate, PageWorkOrderDetail,
		},
		Buttons: []string{"create_data"},
		Builtin: true,
	},
}
