package permission

// Permission is one catalog entry: a page a user may open or a button
// (action) a user may trigger. IDs are unique within each catalog.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Module      string `json:"module"`
	Description string `json:"description,omitempty"`
}

type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

const (
	ModuleData      = "data"
	ModuleReport    = "report"
	ModuleSystem    = "system"
	ModuleTool      = "tool"
	ModuleFile      = "file"
	ModuleMessage   = "message"
	ModuleWorkOrder = "workorder"
)

var modules = []Module{
	{ID: ModuleData, Name: "数据管理", Description: "数据录入、查询和管理相关功能"},
	{ID: ModuleReport, Name: "报表管理", Description: "报表生成、查询和管理功能"},
	{ID: ModuleSystem, Name: "系统管理", Description: "系统配置和用户管理功能"},
	{ID: ModuleTool, Name: "工具计算", Description: "各类计算工具和辅助功能"},
	{ID: ModuleFile, Name: "文件管理", Description: "文件上传、下载和管理功能"},
	{ID: ModuleMessage, Name: "消息管理", Description: "系统消息和通知管理功能"},
	{ID: ModuleWorkOrder, Name: "工单管理", Description: "工单创建、流转和审计功能"},
}

// Page permission ids referenced from code.
const (
	PageMessages        = "messages"
	PageWorkOrderList   = "workorder_list"
	PageWorkOrderCreate = "workorder_create"
	PageWorkOrderDetail = "workorder_detail"
	PageWorkOrderEdit   = "workorder_edit"
)

// Button permission ids referenced from code.
const (
	ButtonSystemConfig    = "system_config"
	ButtonWorkOrderAssign = "workorder_assign"
	ButtonWorkOrderClose  = "workorder_close"
	ButtonWorkOrderDelete = "workorder_delete"
)

var pageCatalog = []Permission{
	{ID: "data_entry", Name: "数据录入", Module: ModuleData, Description: "数据录入页面访问权限"},
	{ID: "data_query", Name: "数据查询", Module: ModuleData, Description: "数据查询页面访问权限"},
	{ID: "lab_data", Name: "实验室数据", Module: ModuleData, Description: "实验室数据管理页面"},
	{ID: "sludge_data", Name: "污泥数据", Module: ModuleData, Description: "污泥数据管理页面"},
	{ID: "ao_data", Name: "AO数据", Module: ModuleData, Description: "AO工艺数据管理页面"},
	{ID: "history_data", Name: "历史数据", Module: ModuleData, Description: "历史数据查询页面"},

	{ID: "reports", Name: "报表管理", Module: ModuleReport, Description: "报表管理主页面"},
	{ID: "report_form", Name: "报表表单", Module: ModuleReport, Description: "报表表单填写页面"},
	{ID: "report_query", Name: "报表查询", Module: ModuleReport, Description: "报表查询页面"},
	{ID: "dynamic_reports", Name: "动态报表", Module: ModuleReport, Description: "动态报表生成页面"},

	{ID: "user_management", Name: "用户管理", Module: ModuleSystem, Description: "用户账户管理页面"},
	{ID: "api_management", Name: "API管理", Module: ModuleSystem, Description: "API接口管理页面"},
	{ID: "oauth2_config", Name: "OAuth2配置", Module: ModuleSystem, Description: "OAuth2认证配置页面"},
	{ID: "site_management", Name: "站点管理", Module: ModuleSystem, Description: "站点信息管理页面"},
	{ID: "department_permission", Name: "部门权限管理", Module: ModuleSystem, Description: "部门权限配置页面"},

	{ID: "dosing_calculator", Name: "投药计算器", Module: ModuleTool, Description: "投药量计算工具"},
	{ID: "pac_calculator", Name: "PAC计算器", Module: ModuleTool, Description: "PAC投加量计算工具"},
	{ID: "pam_calculator", Name: "PAM计算器", Module: ModuleTool, Description: "PAM投加量计算工具"},
	{ID: "excess_sludge_calculator", Name: "剩余污泥计算器", Module: ModuleTool, Description: "剩余污泥量计算工具"},
	{ID: "carbon_calc", Name: "碳源计算", Module: ModuleTool, Description: "碳源投加计算工具"},

	{ID: "file_upload", Name: "文件上传", Module: ModuleFile, Description: "文件上传管理页面"},
	{ID: "dav_screen", Name: "DAV文件管理", Module: ModuleFile, Description: "DAV文件系统管理页面"},

	{ID: PageMessages, Name: "消息管理", Module: ModuleMessage, Description: "系统消息管理页面"},
	{ID: "message_query", Name: "消息查询", Module: ModuleMessage, Description: "消息查询页面"},

	{ID: PageWorkOrderList, Name: "工单列表", Module: ModuleWorkOrder, Description: "工单列表页面"},
	{ID: PageWorkOrderCreate, Name: "工单创建", Module: ModuleWorkOrder, Description: "工单创建页面"},
	{ID: PageWorkOrderDetail, Name: "工单详情", Module: ModuleWorkOrder, Description: "工单详情页面"},
	{ID: PageWorkOrderEdit, Name: "工单编辑", Module: ModuleWorkOrder, Description: "工单编辑页面"},
}

var buttonCatalog = []Permission{
	{ID: "create_data", Name: "创建数据", Module: ModuleData},
	{ID: "delete_data", Name: "删除数据", Module: ModuleData},
	{ID: "export_data", Name: "导出数据", Module: ModuleData},
	{ID: "create_report", Name: "创建报表", Module: ModuleReport},
	{ID: "export_report", Name: "导出报表", Module: ModuleReport},
	{ID: ButtonSystemConfig, Name: "系统配置", Module: ModuleSystem},

	{ID: ButtonWorkOrderAssign, Name: "工单指派", Module: ModuleWorkOrder},
	{ID: ButtonWorkOrderClose, Name: "工单关闭", Module: ModuleWorkOrder},
	{ID: ButtonWorkOrderDelete, Name: "工单删除", Module: ModuleWorkOrder},
}

func Modules() []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

func PageCatalog() []Permission {
	out := make([]Permission, len(pageCatalog))
	copy(out, pageCatalog)
	return out
}

func ButtonCatalog() []Permission {
	out := make([]Permission, len(buttonCatalog))
	copy(out, buttonCatalog)
	return out
}

func PageIDs() []string {
	ids := make([]string, 0, len(pageCatalog))
	for _, p := range pageCatalog {
		ids = append(ids, p.ID)
	}
	return ids
}

func ButtonIDs() []string {
	ids := make([]string, 0, len(buttonCatalog))
	for _, p := range buttonCatalog {
		ids = append(ids, p.ID)
	}
	return ids
}

func IsPageID(id string) bool {
	for _, p := range pageCatalog {
		if p.ID == id {
			return true
		}
	}
	return false
}

func IsButtonID(id string) bool {
	for _, p := range buttonCatalog {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CatalogByModule groups both catalogs per module for the admin screen.
func CatalogByModule() map[string]struct {
	Module  Module       `json:"module"`
	Pages   []Permission `json:"pages"`
	Buttons []Permission `json:"buttons"`
} {
	grouped := make(map[string]struct {
		Module  Module       `json:"module"`
		Pages   []Permission `json:"pages"`
		Buttons []Permission `json:"buttons"`
	})
	for _, m := range modules {
		entry := grouped[m.ID]
		entry.Module = m
		grouped[m.ID] = entry
	}
	for _, p := range pageCatalog {
		entry := grouped[p.Module]
		entry.Pages = append(entry.Pages, p)
		grouped[p.Module] = entry
	}
	for _, b := range buttonCatalog {
		entry := grouped[b.Module]
		entry.Buttons = append(entry.Buttons, b)
		grouped[b.Module] = entry
	}
	return grouped
}
