// storefront 同步层演示外壳
//
// 把浏览器里的目录/购物车/订单视图换成一个交互式命令行：
// 同一套协调器、同一套广播通道、同一套乐观更新流程，
// 用来端到端演示同步层对开发后端（cmd/api）的消费。
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	appcart "github.com/moraisLuismNet/recordstore/internal/application/cart"
	appcatalog "github.com/moraisLuismNet/recordstore/internal/application/catalog"
	apporder "github.com/moraisLuismNet/recordstore/internal/application/order"
	"github.com/moraisLuismNet/recordstore/internal/domain/cart"
	"github.com/moraisLuismNet/recordstore/internal/domain/catalog"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/api"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/auth"
	"github.com/moraisLuismNet/recordstore/internal/infrastructure/config"
	"github.com/moraisLuismNet/recordstore/pkg/hub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 广播通道（依赖注入：协调器不自己创建通道）
	stockHub := hub.New[catalog.StockUpdate]()
	cartHub := hub.New[cart.Snapshot]()
	identityHub := hub.New[auth.Identity]()

	// 会话与API客户端
	session := auth.NewSession(identityHub)
	base := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, session)
	catalogClient := api.NewCatalogClient(base)
	cartClient := api.NewCartClient(base)
	ordersClient := api.NewOrdersClient(base)
	authClient := api.NewAuthClient(base)

	// 协调器与乐观更新器
	catalogCoord := appcatalog.NewCoordinator(catalogClient, stockHub, cartHub)
	defer catalogCoord.Close()
	orderCoord := apporder.NewCoordinator(ordersClient, identityHub)
	defer orderCoord.Close()
	updater := appcart.NewUpdater(session, cartClient, catalogClient, catalogCoord, stockHub, cartHub)

	ctx := context.Background()

	fmt.Printf("✓ 唱片店同步层演示（后端: %s）\n", cfg.API.BaseURL)
	fmt.Println("  命令: list | search <词> | add <id> | remove <id> | cart |")
	fmt.Println("        login <email> <密码> | logout | orders [过滤词] | quit")

	if err := catalogCoord.Load(ctx); err != nil {
		fmt.Printf("⚠️ 目录加载失败: %s\n", catalogCoord.ErrMessage())
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return

		case "list":
			printRecords(catalogCoord.Records())

		case "search":
			catalogCoord.Search(strings.Join(fields[1:], " "))
			printRecords(catalogCoord.Records())

		case "add", "remove":
			if len(fields) < 2 {
				fmt.Println("用法: add|remove <唱片ID>")
				continue
			}
			id, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				fmt.Println("无效的唱片ID")
				continue
			}
			if fields[0] == "add" {
				err = updater.Add(ctx, uint(id))
			} else {
				err = updater.Remove(ctx, uint(id))
			}
			if err != nil {
				fmt.Printf("⚠️ 操作失败: %v\n", err)
			}

		case "cart":
			if err := updater.Refresh(ctx); err != nil {
				fmt.Printf("⚠️ 拉取购物车失败: %v\n", err)
				continue
			}
			printCart(catalogCoord.Records())

		case "login":
			if len(fields) < 3 {
				fmt.Println("用法: login <email> <密码>")
				continue
			}
			result, err := authClient.Login(ctx, fields[1], fields[2])
			if err != nil {
				fmt.Printf("⚠️ 登录失败: %v\n", err)
				continue
			}
			session.SetToken(result.Token)
			if err := updater.Refresh(ctx); err != nil {
				fmt.Printf("⚠️ 拉取购物车失败: %v\n", err)
			}
			fmt.Printf("✓ 已登录: %s\n", session.Email())

		case "logout":
			session.Clear()
			fmt.Println("✓ 已登出")

		case "orders":
			orderCoord.Filter(strings.Join(fields[1:], " "))
			printOrders(orderCoord)

		default:
			fmt.Println("未知命令")
		}
	}
}

func printRecords(records []catalog.Record) {
	if len(records) == 0 {
		fmt.Println("(空)")
		return
	}
	for _, r := range records {
		mark := " "
		if r.InCart {
			mark = fmt.Sprintf("购物车x%d", r.Amount)
		}
		fmt.Printf("  [%d] %-30s %-20s %4d  €%.2f  库存%d  %s\n",
			r.ID, r.Title, r.GroupName, r.Year, r.Price, r.Stock, mark)
	}
}

func printCart(records []catalog.Record) {
	total := 0.0
	count := 0
	for _, r := range records {
		if !r.InCart {
			continue
		}
		fmt.Printf("  [%d] %-30s x%d  €%.2f\n", r.ID, r.Title, r.Amount, r.Price*float64(r.Amount))
		total += r.Price * float64(r.Amount)
		count += r.Amount
	}
	if count == 0 {
		fmt.Println("(购物车为空)")
		return
	}
	fmt.Printf("  共%d件，合计 €%.2f\n", count, total)
}

func printOrders(coord *apporder.Coordinator) {
	orders := coord.Orders()
	if msg := coord.ErrMessage(); msg != "" {
		fmt.Printf("⚠️ %s\n", msg)
	}
	if len(orders) == 0 {
		fmt.Println("(没有订单)")
		return
	}
	for _, o := range orders {
		fmt.Printf("  订单#%d  %s  %s  €%.2f\n", o.ID, o.FormattedDate(), o.PaymentMethod, o.Total)
		for _, d := range o.Details {
			fmt.Printf("      %s x%d  €%.2f\n", d.RecordTitle, d.Amount, d.Price)
		}
	}
}
