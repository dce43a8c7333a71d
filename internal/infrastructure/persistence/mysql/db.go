package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moraisLuismNet/recordstore/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate，仅限开发后端）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&GroupModel{},
		&RecordModel{},
		&CartModel{},
		&CartDetailModel{},
		&OrderModel{},
		&OrderDetailModel{},
	)
}

// UserModel GORM用户模型
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role      string         `gorm:"size:20;not null;default:User;comment:角色(User/Admin)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// GroupModel GORM音乐组合模型
type GroupModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"uniqueIndex;size:100;not null;comment:组合名称"`
	ImageURL  string         `gorm:"size:500;comment:组合图片URL"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (GroupModel) TableName() string {
	return "music_groups"
}

// RecordModel GORM唱片模型
// 设计说明:
// 1. GroupID关联music_groups表，列表查询时左连接取组名
// 2. Title加索引支持检索
// 3. 库存调整必须走原子UPDATE，不允许读改写
type RecordModel struct {
	ID           uint           `gorm:"primaryKey"`
	Title        string         `gorm:"index;size:200;not null;comment:标题"`
	Year         int            `gorm:"comment:出版年份"`
	ImageURL     string         `gorm:"size:500;comment:封面图片URL"`
	Price        float64        `gorm:"type:decimal(10,2);not null;comment:价格"`
	Stock        int            `gorm:"default:0;comment:库存数量"`
	Discontinued bool           `gorm:"default:false;comment:是否停售"`
	GroupID      uint           `gorm:"index;comment:所属组合ID"`
	CreatedAt    time.Time      `gorm:"comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (RecordModel) TableName() string {
	return "records"
}

// CartModel GORM购物车模型（每个用户一个）
type CartModel struct {
	ID        uint              `gorm:"primaryKey"`
	UserEmail string            `gorm:"uniqueIndex;size:100;not null;comment:用户邮箱"`
	Lines     []CartDetailModel `gorm:"foreignKey:CartID"`
	CreatedAt time.Time         `gorm:"comment:创建时间"`
	UpdatedAt time.Time         `gorm:"comment:更新时间"`
}

func (CartModel) TableName() string {
	return "carts"
}

// CartDetailModel GORM购物车行模型
type CartDetailModel struct {
	ID       uint `gorm:"primaryKey"`
	CartID   uint `gorm:"index:idx_cart_record,unique;not null;comment:购物车ID"`
	RecordID uint `gorm:"index:idx_cart_record,unique;not null;comment:唱片ID"`
	Amount   int  `gorm:"not null;comment:数量"`
}

func (CartDetailModel) TableName() string {
	return "cart_details"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderDetailModel是一对多关系
// 2. 订单按UserEmail隔离，查询走该索引
type OrderModel struct {
	ID            uint               `gorm:"primaryKey"`
	UserEmail     string             `gorm:"index;size:100;not null;comment:用户邮箱"`
	OrderDate     time.Time          `gorm:"index;not null;comment:下单时间"`
	PaymentMethod string             `gorm:"size:50;not null;comment:支付方式"`
	Total         float64            `gorm:"type:decimal(10,2);not null;comment:订单总额"`
	Details       []OrderDetailModel `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time          `gorm:"comment:创建时间"`
	UpdatedAt     time.Time          `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderDetailModel GORM订单行模型
// RecordTitle是下单时刻的冗余快照，唱片改名不影响历史订单
type OrderDetailModel struct {
	ID          uint    `gorm:"primaryKey"`
	OrderID     uint    `gorm:"index;not null;comment:订单ID"`
	RecordID    uint    `gorm:"not null;comment:唱片ID"`
	RecordTitle string  `gorm:"size:200;comment:唱片标题(下单时快照)"`
	Amount      int     `gorm:"not null;comment:数量"`
	Price       float64 `gorm:"type:decimal(10,2);not null;comment:成交单价"`
}

func (OrderDetailModel) TableName() string {
	return "order_details"
}
