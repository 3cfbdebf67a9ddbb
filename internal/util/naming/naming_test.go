package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaming(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "home-vpc", VPC("home"))
	assert.Equal(t, "home-lb-eu-west-1a", Subnet("home", "lb", "eu-west-1a"))
	assert.True(t, strings.HasSuffix(Subnet("my-lb-lab", "ecs", "eu-west-1b"), SubnetSuffix("ecs", "eu-west-1b")))
	assert.False(t, strings.HasSuffix(Subnet("my-ecs-lab", "lb", "eu-west-1b"), SubnetSuffix("ecs", "eu-west-1b")))
	assert.Equal(t, "home-igw", InternetGateway("home"))
	assert.Equal(t, "home-nat-0", NATGateway("home", 0))
	assert.Equal(t, "home-nat-eip-1", ElasticIP("home", 1))
	assert.Equal(t, "home-ecs-rt-1", RouteTable("home", "ecs", 1))
	assert.Equal(t, "home-cluster", Cluster("home"))
	assert.Equal(t, "home-alb", ALB("home"))
	assert.Equal(t, "home-nlb", NLB("home"))
	assert.Equal(t, "home-https-8443", Listener("home", "HTTPS", 8443))
	assert.Equal(t, "home-udp-3478-tg", NLBTargetGroup("home", "UDP", 3478))
	assert.Equal(t, "home-unifi", Controller("home"))
	assert.Equal(t, "home-unifi-alb-8843", ALBTargetGroup(Controller("home"), 8843))
	assert.Equal(t, "home-unifi-fargate-task-sg", TaskSecurityGroup(Controller("home")))
	assert.Equal(t, "home-unifi-fargate-service", Service(Controller("home")))
	assert.Equal(t, "/unifictl/home/unifi-controller", LogGroup("home"))
	assert.Equal(t, "home-unifi-config", FileSystem("home"))
}

func TestELBName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", ELBName("short"))

	long := ELBName("abcdefghijklmnopqrstuvwxyz-0123456789")
	assert.Len(t, long, MaxELBNameLength)

	trailing := ELBName(strings.Repeat("a", 31) + "-bcd")
	assert.Equal(t, strings.Repeat("a", 31), trailing)
}

func TestALBTargetGroup_LongestStack(t *testing.T) {
	t.Parallel()

	name := ALBTargetGroup(Controller(strings.Repeat("s", 16)), 8443)
	assert.LessOrEqual(t, len(name), MaxELBNameLength)
	assert.True(t, strings.HasSuffix(name, "-alb-8443"))
}
